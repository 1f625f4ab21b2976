package material

import (
	"errors"

	"gorm.io/gorm"

	"stockyard.GO/core/cache"
	"stockyard.GO/core/errs"
	materialEntity "stockyard.GO/model/entity/material"
)

// CacheTag groups cached catalog rows for bulk invalidation.
const CacheTag = "materials"

// MaterialRepository reads the material catalog. The inventory core never
// writes here; catalog management owns these rows.
type MaterialRepository struct {
	db *gorm.DB
	// cacheTTL enables read caching (seconds) when > 0. Disabled by default
	// so tests and short-lived CLI runs always hit the database.
	cacheTTL int64
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// WithCacheTTL returns the repository with catalog read caching enabled.
func (r *MaterialRepository) WithCacheTTL(seconds int64) *MaterialRepository {
	r.cacheTTL = seconds
	return r
}

// FindByID returns the material with the given id.
func (r *MaterialRepository) FindByID(id uint) (*materialEntity.Material, error) {
	var m materialEntity.Material
	if err := r.db.First(&m, "material_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("material", id)
		}
		return nil, err
	}
	return &m, nil
}

// FindByCode returns the material with the given unique code.
func (r *MaterialRepository) FindByCode(code string) (*materialEntity.Material, error) {
	if r.cacheTTL > 0 {
		if v, ok := cache.GetInstance().GetN("material", code); ok {
			m := v.(materialEntity.Material)
			return &m, nil
		}
	}
	var m materialEntity.Material
	if err := r.db.First(&m, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("material", code)
		}
		return nil, err
	}
	if r.cacheTTL > 0 {
		cache.GetInstance().SetN([]interface{}{"material", code}, m, r.cacheTTL, []string{CacheTag})
	}
	return &m, nil
}

// List returns the whole catalog ordered by code.
func (r *MaterialRepository) List() ([]materialEntity.Material, error) {
	var out []materialEntity.Material
	err := r.db.Order("code").Find(&out).Error
	return out, err
}

// ListByIDs returns materials keyed by id. Missing ids are absent from the map.
func (r *MaterialRepository) ListByIDs(ids []uint) (map[uint]materialEntity.Material, error) {
	if len(ids) == 0 {
		return map[uint]materialEntity.Material{}, nil
	}
	var rows []materialEntity.Material
	if err := r.db.Where("material_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]materialEntity.Material, len(rows))
	for _, m := range rows {
		out[m.MaterialID] = m
	}
	return out, nil
}
