package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockyard.GO/core/errs"
	inventoryEntity "stockyard.GO/model/entity/inventory"
	materialEntity "stockyard.GO/model/entity/material"
	inventoryRepo "stockyard.GO/model/repository/inventory"
	materialRepo "stockyard.GO/model/repository/material"
)

// Composition validation reason codes, surfaced in ValidationError reasons in
// the order the checks run.
const (
	ReasonTooFewEntries    = "too_few_entries"
	ReasonMissingContent   = "missing_content_component"
	ReasonMissingContainer = "missing_container_component"
	ReasonEmptyComponentID = "empty_component_id"
	ReasonDuplicateEntry   = "duplicate_component"
	ReasonSelfReference    = "self_reference"
	ReasonNestedComposite  = "nested_composite"
)

// CompositionInput is one requested bill-of-materials line.
type CompositionInput struct {
	ComponentID          uint            `json:"component_id"`
	ComponentType        string          `json:"component_type"`
	QuantityPerComposite decimal.Decimal `json:"quantity_per_composite"`
	Unit                 string          `json:"unit"`
}

// ComponentDetail joins a composition entry with its component material.
type ComponentDetail struct {
	Entry    inventoryEntity.CompositionEntry `json:"entry"`
	Material materialEntity.Material          `json:"material"`
}

// CompositionService owns bill-of-materials relationships and enforces the
// composition invariants before anything is stored.
type CompositionService struct {
	materials    *materialRepo.MaterialRepository
	compositions *inventoryRepo.CompositionRepository
}

func NewCompositionService(db *gorm.DB) *CompositionService {
	return &CompositionService{
		materials:    materialRepo.NewMaterialRepository(db),
		compositions: inventoryRepo.NewCompositionRepository(db),
	}
}

// GetComponents returns the active composition entries for a composite.
func (s *CompositionService) GetComponents(compositeID uint) ([]inventoryEntity.CompositionEntry, error) {
	return s.compositions.GetComponents(compositeID)
}

// GetComponentDetails returns composition entries joined with their component
// materials, in entry order.
func (s *CompositionService) GetComponentDetails(compositeID uint) ([]ComponentDetail, error) {
	entries, err := s.compositions.GetComponents(compositeID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ComponentID)
	}
	mats, err := s.materials.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]ComponentDetail, 0, len(entries))
	for _, e := range entries {
		mat, ok := mats[e.ComponentID]
		if !ok {
			return nil, errs.NewNotFound("material", e.ComponentID)
		}
		out = append(out, ComponentDetail{Entry: e, Material: mat})
	}
	return out, nil
}

// ListComponentMaterialIDs returns every material id used as a component by
// any composite.
func (s *CompositionService) ListComponentMaterialIDs() (map[uint]struct{}, error) {
	return s.compositions.ListComponentMaterialIDs()
}

// SetComposition validates and replaces a composite's bill of materials.
// Checks run in a fixed order and fail fast with the first violation's
// reason code; the stored composition is untouched on failure.
func (s *CompositionService) SetComposition(compositeID uint, inputs []CompositionInput) error {
	composite, err := s.materials.FindByID(compositeID)
	if err != nil {
		return err
	}
	if !composite.IsComposite {
		return errs.NewConflict(fmt.Sprintf("material %s is not flagged composite", composite.Code))
	}

	// 1. at least 2 entries
	if len(inputs) < 2 {
		return errs.NewValidation(ReasonTooFewEntries)
	}

	// 2. at least one content and one container entry with a component id
	hasContent, hasContainer := false, false
	for _, in := range inputs {
		if in.ComponentID == 0 {
			continue
		}
		switch in.ComponentType {
		case inventoryEntity.ComponentTypeContent:
			hasContent = true
		case inventoryEntity.ComponentTypeContainer:
			hasContainer = true
		}
	}
	if !hasContent {
		return errs.NewValidation(ReasonMissingContent)
	}
	if !hasContainer {
		return errs.NewValidation(ReasonMissingContainer)
	}

	// 3. no entry without a component id
	for _, in := range inputs {
		if in.ComponentID == 0 {
			return errs.NewValidation(ReasonEmptyComponentID)
		}
	}

	// 4. no duplicate component ids
	seen := make(map[uint]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.ComponentID] {
			return errs.NewValidation(ReasonDuplicateEntry)
		}
		seen[in.ComponentID] = true
	}

	// 5. no self-reference
	for _, in := range inputs {
		if in.ComponentID == compositeID {
			return errs.NewValidation(ReasonSelfReference)
		}
	}

	// 6. no nested composites
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ComponentID)
	}
	mats, err := s.materials.ListByIDs(ids)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		mat, ok := mats[in.ComponentID]
		if !ok {
			return errs.NewNotFound("material", in.ComponentID)
		}
		if mat.IsComposite {
			return errs.NewValidation(ReasonNestedComposite)
		}
	}

	entries := make([]inventoryEntity.CompositionEntry, 0, len(inputs))
	for _, in := range inputs {
		if in.ComponentType != inventoryEntity.ComponentTypeContent &&
			in.ComponentType != inventoryEntity.ComponentTypeContainer {
			return errs.NewValidation("invalid component type " + in.ComponentType)
		}
		qty := in.QuantityPerComposite
		if qty.LessThanOrEqual(decimal.Zero) {
			qty = decimal.NewFromInt(1)
		}
		unit := in.Unit
		if unit == "" {
			unit = mats[in.ComponentID].Unit
		}
		entries = append(entries, inventoryEntity.CompositionEntry{
			ComponentID:          in.ComponentID,
			ComponentType:        in.ComponentType,
			QuantityPerComposite: qty,
			Unit:                 unit,
		})
	}
	return s.compositions.ReplaceComposition(compositeID, entries)
}
