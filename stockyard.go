//go:build !cli
// +build !cli

package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"stockyard.GO/api"
	_ "stockyard.GO/api/material"
	_ "stockyard.GO/api/realtime"
	_ "stockyard.GO/api/stock"
	"stockyard.GO/config"
	"stockyard.GO/core/auth"
	"stockyard.GO/core/metrics"
	_ "stockyard.GO/cron/jobs"

	graphqlApi "stockyard.GO/api/graphql"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()

	// Initialize Redis
	config.InitRedis()
	redisStatus := "Redis not configured or not reachable, alert publishing disabled."
	if config.RedisClient != nil {
		err := config.RedisClient.Ping(config.RedisCtx()).Err()
		if err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil // Disable Redis if not reachable
			redisStatus = "Redis configured but not reachable, alert publishing disabled."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	// Check DB connection
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())
	e.Use(metrics.Middleware())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware(db))

	api.ApplyModules(apiGroup, db)
	graphqlApi.RegisterGraphQLRoutes(e, db)
	api.ApplyRoutes(e, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
