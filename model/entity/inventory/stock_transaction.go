package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Transaction types recorded by the batch ledger.
const (
	TransactionTypeOpening    = "opening"
	TransactionTypeAdjustment = "adjustment"
)

// StockTransaction is the audit record written for every batch mutation
// (inventory_stock_transaction). The ledger only ever appends here; later
// reconciliation reads it from outside the inventory core.
type StockTransaction struct {
	TransactionID   uint            `gorm:"column:transaction_id;primaryKey;autoIncrement" json:"transaction_id"`
	RequestID       string          `gorm:"column:request_id;type:varchar(36);index" json:"request_id"`
	MaterialID      uint            `gorm:"column:material_id;not null;index" json:"material_id"`
	BatchID         uint            `gorm:"column:batch_id;not null" json:"batch_id"`
	TransactionType string          `gorm:"column:transaction_type;type:varchar(16);not null" json:"transaction_type"`
	QuantityDelta   decimal.Decimal `gorm:"column:quantity_delta;type:decimal(12,4);not null;default:0" json:"quantity_delta"`
	Reason          string          `gorm:"column:reason;type:varchar(255);not null" json:"reason"`
	Notes           string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Meta            datatypes.JSON  `gorm:"column:meta" json:"meta,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (StockTransaction) TableName() string {
	return "inventory_stock_transaction"
}
