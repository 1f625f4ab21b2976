package material

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockyard.GO/api"
	"stockyard.GO/core/errs"
	inventoryRepo "stockyard.GO/model/repository/inventory"
	materialRepo "stockyard.GO/model/repository/material"
	inventoryService "stockyard.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterMaterialRoutes)
}

// componentInput is one row in the PUT /materials/:code/components body.
type componentInput struct {
	ComponentID   uint   `json:"component_id"`
	ComponentType string `json:"component_type"`
	QuantityPer   string `json:"quantity_per"`
	Unit          string `json:"unit"`
}

type setComponentsRequest struct {
	Components []componentInput `json:"components"`
}

func RegisterMaterialRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/materials")

	materials := materialRepo.NewMaterialRepository(db)
	compositions := inventoryRepo.NewCompositionRepository(db)
	service := inventoryService.NewCompositionService(db)

	// GET /api/materials: catalog listing.
	// ?top=1 hides materials that only exist as components of a composite.
	g.GET("", func(c echo.Context) error {
		list, err := materials.List()
		if err != nil {
			return writeError(c, err)
		}
		if c.QueryParam("top") == "1" {
			componentIDs, err := compositions.ListComponentMaterialIDs()
			if err != nil {
				return writeError(c, err)
			}
			filtered := list[:0]
			for _, m := range list {
				if _, isComponent := componentIDs[m.MaterialID]; !isComponent {
					filtered = append(filtered, m)
				}
			}
			list = filtered
		}
		return c.JSON(http.StatusOK, echo.Map{"materials": list, "count": len(list)})
	})

	// GET /api/materials/:code: single material by code.
	// ?components=1 expands the composition for composite materials.
	g.GET("/:code", func(c echo.Context) error {
		mat, err := materials.FindByCode(c.Param("code"))
		if err != nil {
			return writeError(c, err)
		}
		if c.QueryParam("components") == "1" && mat.IsComposite {
			details, err := service.GetComponentDetails(mat.MaterialID)
			if err != nil {
				return writeError(c, err)
			}
			return c.JSON(http.StatusOK, echo.Map{"material": mat, "components": details})
		}
		return c.JSON(http.StatusOK, echo.Map{"material": mat})
	})

	// GET /api/materials/:code/components: composition entries with component details
	g.GET("/:code/components", func(c echo.Context) error {
		mat, err := materials.FindByCode(c.Param("code"))
		if err != nil {
			return writeError(c, err)
		}
		details, err := service.GetComponentDetails(mat.MaterialID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"components": details})
	})

	// PUT /api/materials/:code/components: replace the full composition.
	// Rejected compositions leave the stored graph untouched.
	g.PUT("/:code/components", func(c echo.Context) error {
		mat, err := materials.FindByCode(c.Param("code"))
		if err != nil {
			return writeError(c, err)
		}
		var body setComponentsRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		inputs := make([]inventoryService.CompositionInput, 0, len(body.Components))
		for _, in := range body.Components {
			qty, err := parseQuantityPer(in.QuantityPer)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			inputs = append(inputs, inventoryService.CompositionInput{
				ComponentID:          in.ComponentID,
				ComponentType:        in.ComponentType,
				QuantityPerComposite: qty,
				Unit:                 in.Unit,
			})
		}
		if err := service.SetComposition(mat.MaterialID, inputs); err != nil {
			return writeError(c, err)
		}
		details, err := service.GetComponentDetails(mat.MaterialID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"components": details})
	})
}

func parseQuantityPer(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

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
