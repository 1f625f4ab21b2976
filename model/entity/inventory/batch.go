package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch represents a quantity of a material acquired at a point in time
// (inventory_batch). Batches are aggregated, not FIFO-consumed; zero-quantity
// batches persist as history and are never deleted by the inventory core.
type Batch struct {
	BatchID          uint            `gorm:"column:batch_id;primaryKey;autoIncrement" json:"batch_id"`
	MaterialID       uint            `gorm:"column:material_id;not null;index" json:"material_id"`
	BatchNumber      string          `gorm:"column:batch_number;type:varchar(64);not null" json:"batch_number"`
	Quantity         decimal.Decimal `gorm:"column:quantity;type:decimal(12,4);not null;default:0" json:"quantity"`
	ReservedQuantity decimal.Decimal `gorm:"column:reserved_quantity;type:decimal(12,4);not null;default:0" json:"reserved_quantity"`
	UnitCost         decimal.Decimal `gorm:"column:unit_cost;type:decimal(12,4);not null;default:0" json:"unit_cost"`
	Location         string          `gorm:"column:location;type:varchar(64)" json:"location,omitempty"`
	Notes            string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Batch) TableName() string {
	return "inventory_batch"
}

// AvailableQuantity is quantity minus reservations.
func (b Batch) AvailableQuantity() decimal.Decimal {
	return b.Quantity.Sub(b.ReservedQuantity)
}

// Value is the batch quantity valued at its unit cost.
func (b Batch) Value() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}
