package material

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material represents a catalog material (catalog_material_entity).
// Catalog rows are created and edited by catalog management; the inventory
// core only reads them. Code is unique and immutable after creation.
type Material struct {
	MaterialID        uint            `gorm:"column:material_id;primaryKey;autoIncrement" json:"material_id"`
	Code              string          `gorm:"column:code;type:varchar(64);not null;uniqueIndex" json:"code"`
	Name              string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Unit              string          `gorm:"column:unit;type:varchar(16);not null;default:pcs" json:"unit"`
	StandardPrice     decimal.Decimal `gorm:"column:standard_price;type:decimal(12,4);not null;default:0" json:"standard_price"`
	MinimumStockLevel decimal.Decimal `gorm:"column:minimum_stock_level;type:decimal(12,4);not null;default:0" json:"minimum_stock_level"`
	// IsComposite and IsDisposable are mutually exclusive; the catalog is
	// the source of truth for both flags.
	IsComposite  bool      `gorm:"column:is_composite;not null;default:false" json:"is_composite"`
	IsDisposable bool      `gorm:"column:is_disposable;not null;default:false" json:"is_disposable"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Material) TableName() string {
	return "catalog_material_entity"
}
