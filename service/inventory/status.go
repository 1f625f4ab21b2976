package inventory

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	materialRepo "stockyard.GO/model/repository/material"
)

var severityFactor = decimal.New(5, -1) // critical at half the reorder level

// StatusEngine classifies effective stock against reorder thresholds and
// derives the low-stock alert set for the whole catalog.
type StatusEngine struct {
	materials *materialRepo.MaterialRepository
	resolver  *StockResolver
}

func NewStatusEngine(db *gorm.DB) *StatusEngine {
	return &StatusEngine{
		materials: materialRepo.NewMaterialRepository(db),
		resolver:  NewStockResolver(db),
	}
}

// Classify maps a stock/threshold pair to a status. Severity is monotone:
// status only improves as stock rises for a fixed positive reorder level.
func Classify(currentStock, reorderLevel decimal.Decimal) StockStatus {
	switch {
	case currentStock.IsZero() || currentStock.IsNegative():
		return StatusOutOfStock
	case reorderLevel.IsPositive() && currentStock.LessThanOrEqual(reorderLevel.Mul(severityFactor)):
		return StatusCritical
	case reorderLevel.IsPositive() && currentStock.LessThanOrEqual(reorderLevel):
		return StatusLow
	default:
		return StatusGood
	}
}

// Status resolves a material's effective stock and classifies it. Composite
// materials with no components resolve to zero stock and are out-of-stock.
func (e *StatusEngine) Status(materialID uint) (StockStatus, *EffectiveStock, error) {
	stock, err := e.resolver.EffectiveStock(materialID)
	if err != nil {
		return "", nil, err
	}
	return Classify(stock.CurrentStock, stock.ReorderLevel), stock, nil
}

// Alerts scans the catalog and emits a warning/critical alert for every
// non-composite material at or below its reorder level. Composites are
// excluded: their bottleneck component is itself an alertable simple
// material. The result is ephemeral and regenerated on every call.
func (e *StatusEngine) Alerts() ([]Alert, error) {
	materials, err := e.materials.List()
	if err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, mat := range materials {
		if mat.IsComposite {
			continue
		}
		if !mat.MinimumStockLevel.IsPositive() {
			continue
		}
		stock, err := e.resolver.EffectiveStock(mat.MaterialID)
		if err != nil {
			return nil, err
		}
		if stock.CurrentStock.GreaterThan(mat.MinimumStockLevel) {
			continue
		}
		severity := SeverityWarning
		if stock.CurrentStock.LessThanOrEqual(mat.MinimumStockLevel.Mul(severityFactor)) {
			severity = SeverityCritical
		}
		alerts = append(alerts, Alert{
			MaterialID:   mat.MaterialID,
			Code:         mat.Code,
			Name:         mat.Name,
			Unit:         mat.Unit,
			Severity:     severity,
			CurrentStock: stock.CurrentStock,
			ReorderLevel: mat.MinimumStockLevel,
		})
	}
	return alerts, nil
}
