package auth

import (
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"stockyard.GO/config"
	authRepo "stockyard.GO/model/repository/auth"
)

// Middleware returns the auth middleware based on AUTH_TYPE env var.
func Middleware(db *gorm.DB) echo.MiddlewareFunc {
	skipper := buildSkipper()
	switch os.Getenv("AUTH_TYPE") {
	case "key":
		return keyAuth(skipper)
	case "token":
		return tokenAuth(authRepo.NewAuthRepository(db), skipper)
	default:
		return basicAuth(skipper)
	}
}

func buildSkipper() middleware.Skipper {
	skipPaths := config.GetAuthSkipperPaths()
	return func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
}

func basicAuth(skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			return username == os.Getenv("API_USER") && password == os.Getenv("API_PASS"), nil
		},
		Skipper: skipper,
	})
}

func keyAuth(skipper middleware.Skipper) echo.MiddlewareFunc {
	apiKey := os.Getenv("API_KEY")
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			return key == apiKey, nil
		},
		Skipper: skipper,
	})
}

func tokenAuth(repo *authRepo.AuthRepository, skipper middleware.Skipper) echo.MiddlewareFunc {
	staticKey := os.Getenv("API_KEY")
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(token string, c echo.Context) (bool, error) {
			if staticKey != "" && token == staticKey {
				c.Set("auth_type", "static")
				return true, nil
			}
			apiToken, err := repo.FindActiveToken(token)
			if err != nil {
				return false, nil
			}
			c.Set("auth_type", "token")
			c.Set("api_token", apiToken)
			return true, nil
		},
		Skipper: skipper,
	})
}
