package realtime

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"stockyard.GO/api"
	"stockyard.GO/config"
	inventoryRepo "stockyard.GO/model/repository/inventory"
	materialRepo "stockyard.GO/model/repository/material"
	inventoryService "stockyard.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// Response for price+stock endpoint
type PriceStockResponse struct {
	Code   string `json:"code"`
	Price  string `json:"price"`
	Stock  string `json:"stock"`
	Status string `json:"status"`
}

// Singleton services (created once per DB)
var (
	materialRepoInstance *materialRepo.MaterialRepository
	batchRepoInstance    *inventoryRepo.BatchRepository
	engineInstance       *inventoryService.StatusEngine
	svcOnce              sync.Once
)

func getServices(db *gorm.DB) (*materialRepo.MaterialRepository, *inventoryRepo.BatchRepository, *inventoryService.StatusEngine) {
	svcOnce.Do(func() {
		materialRepoInstance = materialRepo.NewMaterialRepository(db).WithCacheTTL(60)
		batchRepoInstance = inventoryRepo.NewBatchRepository(db)
		engineInstance = inventoryService.NewStatusEngine(db)
	})
	return materialRepoInstance, batchRepoInstance, engineInstance
}

// getCryptKey returns the signing key from env
func getCryptKey() string {
	return config.GetEnv("STOCKYARD_CRYPT_KEY", "")
}

// verifyClientSignature validates HMAC-SHA256 signature using constant-time comparison
func verifyClientSignature(clientID, signature, cryptKey string) bool {
	if cryptKey == "" || clientID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(cryptKey))
	mac.Write([]byte(clientID))
	expected := mac.Sum(nil)
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, sig)
}

// RegisterRealtimeRoutes sets up the low-latency price/stock lookup API
func RegisterRealtimeRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/price-stock?code=XXX
	g.GET("/price-stock", func(c echo.Context) error {
		start := time.Now()

		// Signature check is enforced only when a key is configured
		clientID := c.Request().Header.Get("X-Client-ID")
		clientSig := c.Request().Header.Get("X-Client-Sig")
		cryptKey := getCryptKey()

		if cryptKey != "" && !verifyClientSignature(clientID, clientSig, cryptKey) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
		}

		code := c.QueryParam("code")
		if code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
		}

		materials, batches, engine := getServices(db)

		mat, err := materials.FindByCode(code)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "material not found"})
		}

		var (
			status  inventoryService.StockStatus
			stock   *inventoryService.EffectiveStock
			summary *inventoryRepo.InventorySummary
		)

		// Parallel fetch using errgroup
		eg := new(errgroup.Group)

		eg.Go(func() error {
			var err error
			status, stock, err = engine.Status(mat.MaterialID)
			return err
		})

		eg.Go(func() error {
			var err error
			summary, err = batches.Summarize(mat.MaterialID)
			return err
		})

		if err := eg.Wait(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, PriceStockResponse{
			Code:   mat.Code,
			Price:  summary.AverageCost.String(),
			Stock:  stock.CurrentStock.String(),
			Status: string(status),
		})
	})

	// GET /api/realtime/stock?code=XXX - effective stock only
	g.GET("/stock", func(c echo.Context) error {
		start := time.Now()

		code := c.QueryParam("code")
		if code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
		}

		materials, _, engine := getServices(db)

		mat, err := materials.FindByCode(code)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "material not found"})
		}

		_, stock, err := engine.Status(mat.MaterialID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))

		return c.JSON(http.StatusOK, echo.Map{"code": mat.Code, "stock": stock.CurrentStock.String()})
	})
}
