package stock

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockyard.GO/api"
	"stockyard.GO/core/errs"
	"stockyard.GO/core/metrics"
	inventoryRepo "stockyard.GO/model/repository/inventory"
	materialRepo "stockyard.GO/model/repository/material"
	inventoryService "stockyard.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

// adjustRequest is the JSON body for POST /api/stock/adjust.
type adjustRequest struct {
	Code     string                            `json:"code"`
	Type     inventoryService.AdjustmentType   `json:"type"`
	Quantity string                            `json:"quantity"`
	Reason   inventoryService.AdjustmentReason `json:"reason"`
	Notes    string                            `json:"notes"`
}

// compositeAdjustRequest is the JSON body for POST /api/stock/adjust/composite.
type compositeAdjustRequest struct {
	Code    string                            `json:"code"`
	Targets []componentTargetInput            `json:"targets"`
	Reason  inventoryService.AdjustmentReason `json:"reason"`
	Notes   string                            `json:"notes"`
}

type componentTargetInput struct {
	MaterialID uint   `json:"material_id"`
	Target     string `json:"target"`
}

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/stock")

	materials := materialRepo.NewMaterialRepository(db)
	batches := inventoryRepo.NewBatchRepository(db)
	engine := inventoryService.NewStatusEngine(db)
	resolver := inventoryService.NewStockResolver(db)
	coordinator := inventoryService.NewAdjustmentCoordinator(db)

	// GET /api/stock/alerts: current low-stock alert feed (regenerated per request)
	g.GET("/alerts", func(c echo.Context) error {
		alerts, err := engine.Alerts()
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"alerts": alerts, "count": len(alerts)})
	})

	// GET /api/stock/:code: effective stock and status
	g.GET("/:code", func(c echo.Context) error {
		mat, err := materials.FindByCode(c.Param("code"))
		if err != nil {
			return writeError(c, err)
		}
		status, stock, err := engine.Status(mat.MaterialID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"stock": stock, "status": status})
	})

	// GET /api/stock/:code/batches: raw batch rows in listing order
	g.GET("/:code/batches", func(c echo.Context) error {
		mat, err := materials.FindByCode(c.Param("code"))
		if err != nil {
			return writeError(c, err)
		}
		rows, err := batches.ListBatches(mat.MaterialID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"batches": rows})
	})

	// GET /api/stock/:code/summary: aggregated inventory summary
	g.GET("/:code/summary", func(c echo.Context) error {
		mat, err := materials.FindByCode(c.Param("code"))
		if err != nil {
			return writeError(c, err)
		}
		summary, err := batches.Summarize(mat.MaterialID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, summary)
	})

	// GET /api/stock/:code/transactions: audit trail, newest first
	g.GET("/:code/transactions", func(c echo.Context) error {
		mat, err := materials.FindByCode(c.Param("code"))
		if err != nil {
			return writeError(c, err)
		}
		rows, err := batches.ListTransactions(mat.MaterialID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"transactions": rows})
	})

	// GET /api/stock/:code/adjust-plan: per-component targets for a composite
	g.GET("/:code/adjust-plan", func(c echo.Context) error {
		mat, err := materials.FindByCode(c.Param("code"))
		if err != nil {
			return writeError(c, err)
		}
		plan, err := coordinator.PlanComposite(mat.MaterialID)
		if err != nil {
			return writeError(c, err)
		}
		stock, err := resolver.EffectiveStock(mat.MaterialID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"composite": stock, "components": plan})
	})

	// POST /api/stock/adjust: simple material adjustment
	g.POST("/adjust", func(c echo.Context) error {
		var body adjustRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		mat, err := materials.FindByCode(body.Code)
		if err != nil {
			return writeError(c, err)
		}
		qty, err := parseQuantity(body.Quantity)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		res, err := coordinator.Adjust(inventoryService.AdjustmentRequest{
			MaterialID: mat.MaterialID,
			Type:       body.Type,
			Quantity:   qty,
			Reason:     body.Reason,
			Notes:      body.Notes,
		})
		if err != nil {
			metrics.AdjustmentCounter.WithLabelValues("failed").Inc()
			return writeError(c, err)
		}
		metrics.AdjustmentCounter.WithLabelValues("succeeded").Inc()
		return c.JSON(http.StatusOK, res)
	})

	// POST /api/stock/adjust/composite: per-component fan-out, best effort
	g.POST("/adjust/composite", func(c echo.Context) error {
		var body compositeAdjustRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		mat, err := materials.FindByCode(body.Code)
		if err != nil {
			return writeError(c, err)
		}
		targets := make([]inventoryService.ComponentTarget, 0, len(body.Targets))
		for _, t := range body.Targets {
			qty, err := parseQuantity(t.Target)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			targets = append(targets, inventoryService.ComponentTarget{MaterialID: t.MaterialID, Target: qty})
		}
		res, err := coordinator.AdjustComposite(mat.MaterialID, targets, body.Reason, body.Notes)
		if err != nil && res == nil {
			metrics.AdjustmentCounter.WithLabelValues("failed").Inc()
			return writeError(c, err)
		}
		switch res.Outcome {
		case inventoryService.OutcomeSucceeded:
			metrics.AdjustmentCounter.WithLabelValues("succeeded").Inc()
			return c.JSON(http.StatusOK, res)
		case inventoryService.OutcomePartiallySucceeded:
			metrics.AdjustmentCounter.WithLabelValues("partial").Inc()
			return c.JSON(http.StatusMultiStatus, res)
		default:
			metrics.AdjustmentCounter.WithLabelValues("failed").Inc()
			return c.JSON(http.StatusUnprocessableEntity, res)
		}
	})
}

func parseQuantity(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errors.New("quantity is required")
	}
	return decimal.NewFromString(raw)
}

// writeError maps inventory core error kinds to HTTP responses.
func writeError(c echo.Context, err error) error {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "reasons": ve.Reasons})
	}
	var nf *errs.NotFoundError
	if errors.As(err, &nf) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
	}
	var ce *errs.ConflictError
	if errors.As(err, &ce) {
		return c.JSON(http.StatusConflict, echo.Map{"error": ce.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
