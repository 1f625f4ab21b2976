package graphqlserver

import (
	"context"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"stockyard.GO/graphql"
	gqlmodels "stockyard.GO/graphql/models"
	"stockyard.GO/graphql/registry"
	"stockyard.GO/graphql/resolvers"
)

// RootResolver is the root for graphql-go. Query methods delegate to the
// resolvers package; the warehouse context travels on ctx.
type RootResolver struct {
	DB *gorm.DB
}

func (r *RootResolver) query() *resolvers.QueryResolver {
	return registry.GetQueryResolver(r.DB).(*resolvers.QueryResolver)
}

// MaterialsArgs matches the materials query arguments (defaults in schema: pageSize=20, currentPage=1).
type MaterialsArgs struct {
	PageSize    int32
	CurrentPage int32
	Top         bool
}

func (r *RootResolver) Materials(ctx context.Context, args MaterialsArgs) (*gqlmodels.MaterialList, error) {
	ps, cp := int(args.PageSize), int(args.CurrentPage)
	return r.query().Materials(ctx, &ps, &cp, args.Top)
}

// MaterialArgs matches the material query arguments.
type MaterialArgs struct {
	Code string
}

func (r *RootResolver) Material(ctx context.Context, args MaterialArgs) (*gqlmodels.Material, error) {
	return r.query().Material(ctx, args.Code)
}

func (r *RootResolver) Stock(ctx context.Context, args MaterialArgs) (*gqlmodels.StockInfo, error) {
	return r.query().Stock(ctx, args.Code)
}

func (r *RootResolver) Alerts(ctx context.Context) ([]*gqlmodels.Alert, error) {
	return r.query().Alerts(ctx)
}

// SearchArgs matches the search query arguments.
type SearchArgs struct {
	Query       string
	PageSize    int32
	CurrentPage int32
}

func (r *RootResolver) Search(ctx context.Context, args SearchArgs) (*gqlmodels.MaterialSearchResult, error) {
	ps, cp := int(args.PageSize), int(args.CurrentPage)
	return r.query().Search(ctx, args.Query, &ps, &cp)
}

// ExtensionArgs for extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *RootResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	return r.query().Extension(ctx, args.Name, args.Args)
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
