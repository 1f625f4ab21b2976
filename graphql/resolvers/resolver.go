package resolvers

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	inventoryRepo "stockyard.GO/model/repository/inventory"
	materialRepo "stockyard.GO/model/repository/material"
	inventoryService "stockyard.GO/service/inventory"

	"stockyard.GO/graphql"
	gqlregistry "stockyard.GO/graphql/registry"
)

func init() {
	gqlregistry.RegisterQueryResolverFactory(func(db interface{}) interface{} {
		return NewQueryResolver(db.(*gorm.DB))
	})
}

// QueryResolver is the single resolver for all Query fields.
// Methods live in material.go, stock.go, search.go.
// New Query fields: use RegisterSchemaExtension + add method on QueryResolver,
// or use extension() for fully dynamic resolvers.
type QueryResolver struct {
	db           *gorm.DB
	materials    *materialRepo.MaterialRepository
	batches      *inventoryRepo.BatchRepository
	compositions *inventoryRepo.CompositionRepository
	composition  *inventoryService.CompositionService
	engine       *inventoryService.StatusEngine
}

func NewQueryResolver(db *gorm.DB) *QueryResolver {
	return &QueryResolver{
		db:           db,
		materials:    materialRepo.NewMaterialRepository(db),
		batches:      inventoryRepo.NewBatchRepository(db),
		compositions: inventoryRepo.NewCompositionRepository(db),
		composition:  inventoryService.NewCompositionService(db),
		engine:       inventoryService.NewStatusEngine(db),
	}
}

func (r *QueryResolver) warehouse(ctx context.Context) string {
	return graphql.WarehouseFromContext(ctx)
}

func (r *QueryResolver) searchService() *SearchService {
	return GetSearchService()
}

// Extension dispatches to registered custom resolvers. The request's
// warehouse code, when set, travels to the resolver as args["warehouse"].
func (r *QueryResolver) Extension(ctx context.Context, name string, rawArgs *string) (*string, error) {
	m := make(map[string]interface{})
	if rawArgs != nil && *rawArgs != "" {
		_ = json.Unmarshal([]byte(*rawArgs), &m)
	}
	if wh := r.warehouse(ctx); wh != "" {
		m["warehouse"] = wh
	}
	out, err := gqlregistry.Resolve(ctx, name, m)
	if err != nil {
		return nil, err
	}
	b, _ := json.Marshal(out)
	s := string(b)
	return &s, nil
}
