package inventory

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	inventoryRepo "stockyard.GO/model/repository/inventory"
	materialRepo "stockyard.GO/model/repository/material"
)

// StockResolver computes effective stock for any material, hiding whether it
// is simple or composite. It is a pure function of the current batch ledger
// and composition graph; nothing is cached across mutations.
type StockResolver struct {
	materials    *materialRepo.MaterialRepository
	batches      *inventoryRepo.BatchRepository
	compositions *inventoryRepo.CompositionRepository
}

func NewStockResolver(db *gorm.DB) *StockResolver {
	return &StockResolver{
		materials:    materialRepo.NewMaterialRepository(db),
		batches:      inventoryRepo.NewBatchRepository(db),
		compositions: inventoryRepo.NewCompositionRepository(db),
	}
}

// EffectiveStock resolves the usable quantity of a material.
//
// Simple materials read the batch summary directly. Composite materials use
// the bottleneck rule: the buildable quantity is the minimum over all
// components of floor(componentStock / quantityPerComposite). A composite is
// capped by its scarcest component, never summed. A composite with no
// configured components resolves to zero.
func (r *StockResolver) EffectiveStock(materialID uint) (*EffectiveStock, error) {
	mat, err := r.materials.FindByID(materialID)
	if err != nil {
		return nil, err
	}

	if !mat.IsComposite {
		summary, err := r.batches.Summarize(materialID)
		if err != nil {
			return nil, err
		}
		return &EffectiveStock{
			MaterialID:   mat.MaterialID,
			Code:         mat.Code,
			CurrentStock: summary.CurrentStock,
			ReorderLevel: mat.MinimumStockLevel,
		}, nil
	}

	components, err := r.compositions.GetComponents(materialID)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return &EffectiveStock{
			MaterialID:  mat.MaterialID,
			Code:        mat.Code,
			IsComposite: true,
		}, nil
	}

	buildable := decimal.Decimal{}
	for i, entry := range components {
		summary, err := r.batches.Summarize(entry.ComponentID)
		if err != nil {
			return nil, err
		}
		qtyPer := entry.QuantityPerComposite
		if qtyPer.LessThanOrEqual(decimal.Zero) {
			qtyPer = decimal.NewFromInt(1)
		}
		units := summary.CurrentStock.Div(qtyPer).Floor()
		if i == 0 || units.LessThan(buildable) {
			buildable = units
		}
	}
	if buildable.IsNegative() {
		buildable = decimal.Zero
	}

	return &EffectiveStock{
		MaterialID:   mat.MaterialID,
		Code:         mat.Code,
		IsComposite:  true,
		CurrentStock: buildable,
		// The composite's own configured minimum, not derived from components.
		ReorderLevel: mat.MinimumStockLevel,
	}, nil
}
