package models

// Decimal quantities and costs travel as strings so precision survives JSON.

// --- Material ---

type Material struct {
	MaterialID        string       `json:"material_id"`
	Code              string       `json:"code"`
	Name              *string      `json:"name,omitempty"`
	Unit              *string      `json:"unit,omitempty"`
	StandardPrice     *string      `json:"standard_price,omitempty"`
	MinimumStockLevel *string      `json:"minimum_stock_level,omitempty"`
	IsComposite       bool         `json:"is_composite"`
	IsDisposable      bool         `json:"is_disposable"`
	Components        *[]*Component `json:"components,omitempty"`
}

type Component struct {
	ComponentID          string  `json:"component_id"`
	Code                 string  `json:"code"`
	Name                 *string `json:"name,omitempty"`
	ComponentType        string  `json:"component_type"`
	QuantityPerComposite string  `json:"quantity_per_composite"`
	Unit                 *string `json:"unit,omitempty"`
}

// --- Stock ---

type StockInfo struct {
	Code         string   `json:"code"`
	IsComposite  bool     `json:"is_composite"`
	CurrentStock string   `json:"current_stock"`
	ReorderLevel string   `json:"reorder_level"`
	Status       string   `json:"status"`
	Summary      *Summary `json:"summary,omitempty"`
}

type Summary struct {
	CurrentStock      string `json:"current_stock"`
	ReservedQuantity  string `json:"reserved_quantity"`
	AvailableQuantity string `json:"available_quantity"`
	TotalValue        string `json:"total_value"`
	AverageCost       string `json:"average_cost"`
	BatchCount        int32  `json:"batch_count"`
}

type Alert struct {
	Code         string  `json:"code"`
	Name         *string `json:"name,omitempty"`
	Unit         *string `json:"unit,omitempty"`
	Severity     string  `json:"severity"`
	CurrentStock string  `json:"current_stock"`
	ReorderLevel string  `json:"reorder_level"`
}

// --- Listing / search ---

type PageInfo struct {
	PageSize    int32 `json:"page_size"`
	CurrentPage int32 `json:"current_page"`
	TotalPages  int32 `json:"total_pages"`
}

type MaterialList struct {
	Items      []*Material `json:"items"`
	TotalCount int32       `json:"total_count"`
	PageInfo   *PageInfo   `json:"page_info"`
}

type MaterialSearchResult struct {
	Items      []*Material `json:"items"`
	TotalCount int32       `json:"total_count"`
	PageInfo   *PageInfo   `json:"page_info"`
}
