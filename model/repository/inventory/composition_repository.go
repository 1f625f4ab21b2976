package inventory

import (
	"gorm.io/gorm"

	inventoryEntity "stockyard.GO/model/entity/inventory"
)

// CompositionRepository stores bill-of-materials rows for composite
// materials. Validation of the composition invariants happens in the
// inventory service before anything is written here.
type CompositionRepository struct {
	db *gorm.DB
}

func NewCompositionRepository(db *gorm.DB) *CompositionRepository {
	return &CompositionRepository{db: db}
}

// GetComponents returns the active composition entries for a composite in
// sort order.
func (r *CompositionRepository) GetComponents(compositeID uint) ([]inventoryEntity.CompositionEntry, error) {
	var entries []inventoryEntity.CompositionEntry
	err := r.db.Where("composite_id = ? AND is_active = ?", compositeID, true).
		Order("sort_order, entry_id").
		Find(&entries).Error
	return entries, err
}

// ReplaceComposition swaps the stored entries for a composite in one
// transaction. Callers must have validated the entries first; on error the
// previous composition stays untouched.
func (r *CompositionRepository) ReplaceComposition(compositeID uint, entries []inventoryEntity.CompositionEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("composite_id = ?", compositeID).
			Delete(&inventoryEntity.CompositionEntry{}).Error; err != nil {
			return err
		}
		active := true
		for i := range entries {
			entries[i].EntryID = 0
			entries[i].CompositeID = compositeID
			entries[i].SortOrder = i
			entries[i].IsActive = &active
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

// ListComponentMaterialIDs returns every material id referenced as a
// component by any composite. Catalog views use this to keep components out
// of top-level listings.
func (r *CompositionRepository) ListComponentMaterialIDs() (map[uint]struct{}, error) {
	var ids []uint
	err := r.db.Model(&inventoryEntity.CompositionEntry{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("component_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// ListCompositeIDs returns every composite id that has at least one active
// component entry.
func (r *CompositionRepository) ListCompositeIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&inventoryEntity.CompositionEntry{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("composite_id", &ids).Error
	return ids, err
}
