package graphql

import (
	"context"

	gqlmodels "stockyard.GO/graphql/models"
)

// QueryResolver is the interface for query resolvers (used by the resolvers package).
type QueryResolver interface {
	Materials(ctx context.Context, pageSize *int, currentPage *int, top bool) (*gqlmodels.MaterialList, error)
	Material(ctx context.Context, code string) (*gqlmodels.Material, error)
	Stock(ctx context.Context, code string) (*gqlmodels.StockInfo, error)
	Alerts(ctx context.Context) ([]*gqlmodels.Alert, error)
	Search(ctx context.Context, query string, pageSize *int, currentPage *int) (*gqlmodels.MaterialSearchResult, error)
}
