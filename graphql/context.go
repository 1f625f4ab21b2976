package graphql

import (
	"context"
	"encoding/json"
	"net/http"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const CtxKeyWarehouse contextKey = "warehouse"

// WarehouseFromContext returns the warehouse code for the current request.
// Empty string means the default location.
func WarehouseFromContext(ctx context.Context) string {
	if v := ctx.Value(CtxKeyWarehouse); v != nil {
		if code, ok := v.(string); ok {
			return code
		}
	}
	return ""
}

// WithWarehouse attaches a warehouse code to context.
func WithWarehouse(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, CtxKeyWarehouse, code)
}

// Warehouse context for the current request.
// Resolved from: Warehouse header > __Warehouse query param > JSON variables.__Warehouse
const (
	HeaderWarehouse     = "Warehouse"
	QueryParamWarehouse = "__Warehouse"
	VarWarehouse        = "__Warehouse"
)

// GetWarehouse extracts the warehouse code from request headers or query.
// Priority: 1) Warehouse header, 2) __Warehouse query param
func GetWarehouse(r *http.Request) string {
	if h := r.Header.Get(HeaderWarehouse); h != "" {
		return h
	}
	if q := r.URL.Query().Get(QueryParamWarehouse); q != "" {
		return q
	}
	return ""
}

// ParseWarehouseFromVariables parses variables from a JSON body for __Warehouse
func ParseWarehouseFromVariables(body []byte) (string, bool) {
	var payload struct {
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Variables == nil {
		return "", false
	}
	if v, ok := payload.Variables[VarWarehouse]; ok {
		if code, ok := v.(string); ok && code != "" {
			return code, true
		}
	}
	return "", false
}
