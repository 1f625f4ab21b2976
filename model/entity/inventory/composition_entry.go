package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component roles within a composite material.
const (
	ComponentTypeContent   = "content"
	ComponentTypeContainer = "container"
)

// CompositionEntry is one line of a composite material's bill of materials
// (inventory_composition). A composite maps to an ordered list of component
// entries; a component may appear at most once per composite.
type CompositionEntry struct {
	EntryID              uint            `gorm:"column:entry_id;primaryKey;autoIncrement" json:"entry_id"`
	CompositeID          uint            `gorm:"column:composite_id;not null;uniqueIndex:idx_composite_component" json:"composite_id"`
	ComponentID          uint            `gorm:"column:component_id;not null;uniqueIndex:idx_composite_component" json:"component_id"`
	ComponentType        string          `gorm:"column:component_type;type:varchar(16);not null" json:"component_type"`
	QuantityPerComposite decimal.Decimal `gorm:"column:quantity_per_composite;type:decimal(12,4);not null;default:1" json:"quantity_per_composite"`
	Unit                 string          `gorm:"column:unit;type:varchar(16);not null;default:pcs" json:"unit"`
	// Pointer so an explicit false survives Create; gorm drops zero-valued
	// fields that carry a default tag.
	IsActive  *bool     `gorm:"column:is_active;not null;default:true" json:"is_active"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CompositionEntry) TableName() string {
	return "inventory_composition"
}
