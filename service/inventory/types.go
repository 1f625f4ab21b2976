package inventory

import (
	"github.com/shopspring/decimal"
)

// StockStatus classifies effective stock against the reorder level.
type StockStatus string

const (
	StatusGood       StockStatus = "good"
	StatusLow        StockStatus = "low"
	StatusCritical   StockStatus = "critical"
	StatusOutOfStock StockStatus = "out-of-stock"
)

// AlertSeverity is the severity of a low-stock alert.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// EffectiveStock is the usable quantity of a material: batch stock read
// directly for simple materials, the bottleneck derivation for composites.
type EffectiveStock struct {
	MaterialID   uint            `json:"material_id"`
	Code         string          `json:"code"`
	IsComposite  bool            `json:"is_composite"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// Alert is a derived, ephemeral low-stock notification. Alerts are
// regenerated on every scan and never persisted.
type Alert struct {
	MaterialID   uint            `json:"material_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Severity     AlertSeverity   `json:"severity"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}
