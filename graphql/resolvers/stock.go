package resolvers

import (
	"context"

	gqlmodels "stockyard.GO/graphql/models"
)

// Stock returns effective stock, status and the batch summary for a code.
func (r *QueryResolver) Stock(ctx context.Context, code string) (*gqlmodels.StockInfo, error) {
	mat, err := r.materials.FindByCode(code)
	if err != nil {
		return nil, err
	}
	status, stock, err := r.engine.Status(mat.MaterialID)
	if err != nil {
		return nil, err
	}
	model, err := stockToModel(status, stock)
	if err != nil {
		return nil, err
	}
	if !mat.IsComposite {
		summary, err := r.batches.Summarize(mat.MaterialID)
		if err != nil {
			return nil, err
		}
		if model.Summary, err = summaryToModel(summary); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// Alerts returns the current low-stock alert feed.
func (r *QueryResolver) Alerts(ctx context.Context) ([]*gqlmodels.Alert, error) {
	alerts, err := r.engine.Alerts()
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Alert, 0, len(alerts))
	for _, a := range alerts {
		model, err := alertToModel(a)
		if err != nil {
			return nil, err
		}
		out = append(out, model)
	}
	return out, nil
}
