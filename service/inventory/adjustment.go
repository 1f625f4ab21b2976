package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockyard.GO/core/errs"
	inventoryRepo "stockyard.GO/model/repository/inventory"
	materialRepo "stockyard.GO/model/repository/material"
)

// AdjustmentType is the quantity semantics of a stock change request.
type AdjustmentType string

const (
	AdjustIncrease AdjustmentType = "increase"
	AdjustDecrease AdjustmentType = "decrease"
	AdjustSet      AdjustmentType = "set"
)

// AdjustmentState tracks a request through the coordinator.
type AdjustmentState string

const (
	StateRequested       AdjustmentState = "REQUESTED"
	StateValidated       AdjustmentState = "VALIDATED"
	StateSimpleApplied   AdjustmentState = "SIMPLE_APPLIED"
	StateComponentFanOut AdjustmentState = "COMPONENT_FAN_OUT"
)

// AdjustmentOutcome is the terminal result of a request.
type AdjustmentOutcome string

const (
	OutcomeSucceeded          AdjustmentOutcome = "SUCCEEDED"
	OutcomePartiallySucceeded AdjustmentOutcome = "PARTIALLY_SUCCEEDED"
	OutcomeFailed             AdjustmentOutcome = "FAILED"
)

// AdjustmentRequest is a stock change against a simple material.
type AdjustmentRequest struct {
	MaterialID uint             `json:"material_id"`
	Type       AdjustmentType   `json:"type"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Reason     AdjustmentReason `json:"reason"`
	Notes      string           `json:"notes,omitempty"`
}

// AdjustmentResult reports an applied simple adjustment. Summary is
// recomputed from the ledger after the mutation, never served stale.
type AdjustmentResult struct {
	RequestID     string                          `json:"request_id"`
	MaterialID    uint                            `json:"material_id"`
	Code          string                          `json:"code"`
	State         AdjustmentState                 `json:"state"`
	Outcome       AdjustmentOutcome               `json:"outcome"`
	PreviousStock decimal.Decimal                 `json:"previous_stock"`
	NewStock      decimal.Decimal                 `json:"new_stock"`
	Delta         decimal.Decimal                 `json:"delta"`
	BatchID       uint                            `json:"batch_id"`
	Summary       *inventoryRepo.InventorySummary `json:"summary"`
}

// ComponentPlan is one editable line of a composite adjustment: the caller
// sees the component's current stock and submits a target per component.
type ComponentPlan struct {
	MaterialID           uint            `json:"material_id"`
	Code                 string          `json:"code"`
	Name                 string          `json:"name"`
	Unit                 string          `json:"unit"`
	ComponentType        string          `json:"component_type"`
	QuantityPerComposite decimal.Decimal `json:"quantity_per_composite"`
	CurrentStock         decimal.Decimal `json:"current_stock"`
}

// ComponentTarget is the requested absolute stock for one component.
type ComponentTarget struct {
	MaterialID uint            `json:"material_id"`
	Target     decimal.Decimal `json:"target"`
}

// ComponentResult is the per-component outcome of a composite fan-out.
type ComponentResult struct {
	MaterialID    uint            `json:"material_id"`
	Code          string          `json:"code"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	TargetStock   decimal.Decimal `json:"target_stock"`
	Applied       bool            `json:"applied"`
	Skipped       bool            `json:"skipped"`
	Error         string          `json:"error,omitempty"`
}

// CompositeAdjustmentResult reports a composite fan-out. Skipped components
// (target equal to current) count toward neither success nor error.
type CompositeAdjustmentResult struct {
	RequestID    string            `json:"request_id"`
	CompositeID  uint              `json:"composite_id"`
	Code         string            `json:"code"`
	State        AdjustmentState   `json:"state"`
	Outcome      AdjustmentOutcome `json:"outcome"`
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
	SkippedCount int               `json:"skipped_count"`
	Components   []ComponentResult `json:"components"`
}

// AdjustmentCoordinator validates and applies stock change requests. Simple
// materials mutate one batch; composites fan out into one change per
// component with best-effort semantics and no cross-component rollback.
type AdjustmentCoordinator struct {
	materials    *materialRepo.MaterialRepository
	batches      *inventoryRepo.BatchRepository
	compositions *CompositionService
	resolver     *StockResolver
}

func NewAdjustmentCoordinator(db *gorm.DB) *AdjustmentCoordinator {
	return &AdjustmentCoordinator{
		materials:    materialRepo.NewMaterialRepository(db),
		batches:      inventoryRepo.NewBatchRepository(db),
		compositions: NewCompositionService(db),
		resolver:     NewStockResolver(db),
	}
}

// Adjust applies a stock change to a simple material. All violations are
// collected and returned before any write happens.
func (c *AdjustmentCoordinator) Adjust(req AdjustmentRequest) (*AdjustmentResult, error) {
	mat, err := c.materials.FindByID(req.MaterialID)
	if err != nil {
		return nil, err
	}
	if mat.IsComposite {
		return nil, errs.NewConflict("composite material " + mat.Code + " is adjusted per component")
	}

	summary, err := c.batches.Summarize(req.MaterialID)
	if err != nil {
		return nil, err
	}

	var violations []string
	switch req.Type {
	case AdjustIncrease, AdjustDecrease:
		if !req.Quantity.IsPositive() {
			violations = append(violations, "quantity must be positive for "+string(req.Type))
		}
	case AdjustSet:
		if req.Quantity.IsNegative() {
			violations = append(violations, "quantity must not be negative for set")
		}
	default:
		violations = append(violations, "unknown adjustment type "+string(req.Type))
	}
	if req.Type == AdjustDecrease && req.Quantity.GreaterThan(summary.CurrentStock) {
		violations = append(violations, fmt.Sprintf("decrease of %s exceeds current stock %s",
			req.Quantity.String(), summary.CurrentStock.String()))
	}
	violations = append(violations, req.Reason.Validate()...)
	if len(violations) > 0 {
		return nil, errs.NewValidation(violations...)
	}

	var delta decimal.Decimal
	switch req.Type {
	case AdjustIncrease:
		delta = req.Quantity
	case AdjustDecrease:
		delta = req.Quantity.Neg()
	case AdjustSet:
		delta = req.Quantity.Sub(summary.CurrentStock)
	}

	requestID := uuid.NewString()
	batchID, err := c.applyDelta(mat.MaterialID, mat.StandardPrice, summary.CurrentStock, delta, req.Reason.Text(), req.Notes, requestID)
	if err != nil {
		return nil, err
	}

	fresh, err := c.batches.Summarize(req.MaterialID)
	if err != nil {
		return nil, err
	}
	return &AdjustmentResult{
		RequestID:     requestID,
		MaterialID:    mat.MaterialID,
		Code:          mat.Code,
		State:         StateSimpleApplied,
		Outcome:       OutcomeSucceeded,
		PreviousStock: summary.CurrentStock,
		NewStock:      fresh.CurrentStock,
		Delta:         delta,
		BatchID:       batchID,
		Summary:       fresh,
	}, nil
}

// applyDelta moves a material's total stock by delta: an opening batch when
// none exists, otherwise an absolute set on the first batch in listing order.
func (c *AdjustmentCoordinator) applyDelta(materialID uint, unitCost, currentStock, delta decimal.Decimal, reason, notes, requestID string) (uint, error) {
	batches, err := c.batches.ListBatches(materialID)
	if err != nil {
		return 0, err
	}
	if len(batches) == 0 {
		target := currentStock.Add(delta)
		batch, err := c.batches.CreateOpeningBatch(materialID, target, unitCost, "", notes, reason, requestID)
		if err != nil {
			return 0, err
		}
		return batch.BatchID, nil
	}
	first := batches[0]
	batch, err := c.batches.SetBatchQuantity(first.BatchID, first.Quantity.Add(delta), reason, notes, requestID)
	if err != nil {
		return 0, err
	}
	return batch.BatchID, nil
}

// PlanComposite returns the current per-component stock of a composite so a
// caller can edit each target independently before confirming.
func (c *AdjustmentCoordinator) PlanComposite(compositeID uint) ([]ComponentPlan, error) {
	mat, err := c.materials.FindByID(compositeID)
	if err != nil {
		return nil, err
	}
	if !mat.IsComposite {
		return nil, errs.NewConflict("material " + mat.Code + " is not composite")
	}
	details, err := c.compositions.GetComponentDetails(compositeID)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, errs.NewNotFound("composition", mat.Code)
	}

	plans := make([]ComponentPlan, 0, len(details))
	for _, d := range details {
		summary, err := c.batches.Summarize(d.Material.MaterialID)
		if err != nil {
			return nil, err
		}
		plans = append(plans, ComponentPlan{
			MaterialID:           d.Material.MaterialID,
			Code:                 d.Material.Code,
			Name:                 d.Material.Name,
			Unit:                 d.Entry.Unit,
			ComponentType:        d.Entry.ComponentType,
			QuantityPerComposite: d.Entry.QuantityPerComposite,
			CurrentStock:         summary.CurrentStock,
		})
	}
	return plans, nil
}

// AdjustComposite applies one absolute-set per component whose target
// differs from its current stock. Component calls are independent: the loop
// continues past failures and collects them, so a partial outcome is
// reported rather than rolled back.
func (c *AdjustmentCoordinator) AdjustComposite(compositeID uint, targets []ComponentTarget, reason AdjustmentReason, notes string) (*CompositeAdjustmentResult, error) {
	mat, err := c.materials.FindByID(compositeID)
	if err != nil {
		return nil, err
	}
	if !mat.IsComposite {
		return nil, errs.NewConflict("material " + mat.Code + " is not composite")
	}
	details, err := c.compositions.GetComponentDetails(compositeID)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, errs.NewNotFound("composition", mat.Code)
	}
	if violations := reason.Validate(); len(violations) > 0 {
		return nil, errs.NewValidation(violations...)
	}
	if len(targets) == 0 {
		return nil, errs.NewValidation("at least one component target is required")
	}

	componentIDs := make(map[uint]string, len(details))
	for _, d := range details {
		componentIDs[d.Material.MaterialID] = d.Material.Code
	}
	for _, t := range targets {
		if _, ok := componentIDs[t.MaterialID]; !ok {
			return nil, errs.NewValidation(fmt.Sprintf("material %d is not a component of %s", t.MaterialID, mat.Code))
		}
	}

	result := &CompositeAdjustmentResult{
		RequestID:   uuid.NewString(),
		CompositeID: mat.MaterialID,
		Code:        mat.Code,
		State:       StateComponentFanOut,
	}

	for _, t := range targets {
		code := componentIDs[t.MaterialID]
		cr := ComponentResult{MaterialID: t.MaterialID, Code: code, TargetStock: t.Target}

		summary, err := c.batches.Summarize(t.MaterialID)
		if err != nil {
			cr.Error = err.Error()
			result.ErrorCount++
			result.Components = append(result.Components, cr)
			continue
		}
		cr.PreviousStock = summary.CurrentStock

		if t.Target.Equal(summary.CurrentStock) {
			cr.Skipped = true
			result.SkippedCount++
			result.Components = append(result.Components, cr)
			continue
		}

		componentMat, err := c.materials.FindByID(t.MaterialID)
		if err != nil {
			cr.Error = err.Error()
			result.ErrorCount++
			result.Components = append(result.Components, cr)
			continue
		}
		delta := t.Target.Sub(summary.CurrentStock)
		componentNotes := fmt.Sprintf("component of %s: %s", mat.Code, notes)
		if _, err := c.applyDelta(t.MaterialID, componentMat.StandardPrice, summary.CurrentStock, delta, reason.Text(), componentNotes, result.RequestID); err != nil {
			cr.Error = err.Error()
			result.ErrorCount++
		} else {
			cr.Applied = true
			result.SuccessCount++
		}
		result.Components = append(result.Components, cr)
	}

	switch {
	case result.ErrorCount == 0:
		result.Outcome = OutcomeSucceeded
	case result.SuccessCount > 0:
		result.Outcome = OutcomePartiallySucceeded
	default:
		result.Outcome = OutcomeFailed
	}

	if result.ErrorCount > 0 {
		return result, result.partialError()
	}
	return result, nil
}

// partialError renders the fan-out failures as an error value so callers can
// retry only the failed components.
func (r *CompositeAdjustmentResult) partialError() *errs.PartialFailure {
	pf := &errs.PartialFailure{
		SuccessCount: r.SuccessCount,
		ErrorCount:   r.ErrorCount,
	}
	for _, cr := range r.Components {
		if cr.Error != "" {
			pf.Failures = append(pf.Failures, errs.ComponentFailure{
				MaterialID: cr.MaterialID,
				Code:       cr.Code,
				Err:        fmt.Errorf("%s", cr.Error),
			})
		}
	}
	return pf
}
