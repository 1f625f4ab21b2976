package inventory

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockyard.GO/core/errs"
	inventoryEntity "stockyard.GO/model/entity/inventory"
	materialEntity "stockyard.GO/model/entity/material"
)

// BatchRepository is the batch ledger: it owns raw batch rows per material
// and the audit trail written on every mutation. Batches are aggregated, not
// FIFO-consumed; adjustments always target the first batch in listing order
// (adjustTargetBatch = firstByListOrder). Zero-quantity batches persist.
type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// InventorySummary is the derived per-material stock view. It is recomputed
// from batch rows on every call and never stored.
type InventorySummary struct {
	MaterialID        uint            `json:"material_id"`
	Code              string          `json:"code"`
	Unit              string          `json:"unit"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	TotalValue        decimal.Decimal `json:"total_value"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	StandardPrice     decimal.Decimal `json:"standard_price"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	BatchCount        int             `json:"batch_count"`
}

// ListBatches returns all batches for a material in listing order.
func (r *BatchRepository) ListBatches(materialID uint) ([]inventoryEntity.Batch, error) {
	var batches []inventoryEntity.Batch
	err := r.db.Where("material_id = ?", materialID).Order("batch_id").Find(&batches).Error
	return batches, err
}

// Summarize aggregates all batch rows for a material. Price and reorder
// level pass through from the catalog entry; average cost is derived from
// the batch values when any stock is on hand.
func (r *BatchRepository) Summarize(materialID uint) (*InventorySummary, error) {
	var mat materialEntity.Material
	if err := r.db.First(&mat, "material_id = ?", materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("material", materialID)
		}
		return nil, err
	}

	batches, err := r.ListBatches(materialID)
	if err != nil {
		return nil, err
	}

	s := &InventorySummary{
		MaterialID:    mat.MaterialID,
		Code:          mat.Code,
		Unit:          mat.Unit,
		StandardPrice: mat.StandardPrice,
		ReorderLevel:  mat.MinimumStockLevel,
		BatchCount:    len(batches),
	}
	for _, b := range batches {
		s.CurrentStock = s.CurrentStock.Add(b.Quantity)
		s.ReservedQuantity = s.ReservedQuantity.Add(b.ReservedQuantity)
		s.AvailableQuantity = s.AvailableQuantity.Add(b.AvailableQuantity())
		s.TotalValue = s.TotalValue.Add(b.Value())
	}
	switch {
	case s.CurrentStock.IsPositive():
		s.AverageCost = s.TotalValue.Div(s.CurrentStock)
	case len(batches) > 0:
		s.AverageCost = batches[0].UnitCost
	default:
		s.AverageCost = mat.StandardPrice
	}
	return s, nil
}

// CreateOpeningBatch creates the first batch for a material that has no
// stock record yet. Quantity must be non-negative.
func (r *BatchRepository) CreateOpeningBatch(materialID uint, quantity, unitCost decimal.Decimal, location, notes, reason, requestID string) (*inventoryEntity.Batch, error) {
	if quantity.IsNegative() {
		return nil, errs.NewValidation("opening quantity must not be negative")
	}
	var mat materialEntity.Material
	if err := r.db.First(&mat, "material_id = ?", materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("material", materialID)
		}
		return nil, err
	}

	batch := &inventoryEntity.Batch{
		MaterialID:  materialID,
		BatchNumber: "OPEN-" + uuid.NewString()[:8],
		Quantity:    quantity,
		UnitCost:    unitCost,
		Location:    location,
		Notes:       notes,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return err
		}
		return r.recordTransaction(tx, batch, inventoryEntity.TransactionTypeOpening, quantity, decimal.Zero, reason, notes, requestID)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// SetBatchQuantity replaces a batch's quantity with an absolute value.
// The quantity write is a single UPDATE statement; per-batch atomicity under
// concurrent writers is the storage engine's guarantee.
func (r *BatchRepository) SetBatchQuantity(batchID uint, newQuantity decimal.Decimal, reason, notes, requestID string) (*inventoryEntity.Batch, error) {
	if newQuantity.IsNegative() {
		return nil, errs.NewValidation("batch quantity must not be negative")
	}

	var batch inventoryEntity.Batch
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&batch, "batch_id = ?", batchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFound("batch", batchID)
			}
			return err
		}
		previous := batch.Quantity

		res := tx.Model(&inventoryEntity.Batch{}).
			Where("batch_id = ?", batchID).
			Update("quantity", newQuantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("batch", batchID)
		}
		batch.Quantity = newQuantity

		delta := newQuantity.Sub(previous)
		return r.recordTransaction(tx, &batch, inventoryEntity.TransactionTypeAdjustment, delta, previous, reason, notes, requestID)
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListTransactions returns the audit trail for a material, newest first.
func (r *BatchRepository) ListTransactions(materialID uint) ([]inventoryEntity.StockTransaction, error) {
	var rows []inventoryEntity.StockTransaction
	err := r.db.Where("material_id = ?", materialID).Order("transaction_id DESC").Find(&rows).Error
	return rows, err
}

func (r *BatchRepository) recordTransaction(tx *gorm.DB, batch *inventoryEntity.Batch, txType string, delta, previous decimal.Decimal, reason, notes, requestID string) error {
	meta, _ := json.Marshal(map[string]string{
		"previous_quantity": previous.String(),
		"new_quantity":      batch.Quantity.String(),
	})
	return tx.Create(&inventoryEntity.StockTransaction{
		RequestID:       requestID,
		MaterialID:      batch.MaterialID,
		BatchID:         batch.BatchID,
		TransactionType: txType,
		QuantityDelta:   delta,
		Reason:          reason,
		Notes:           notes,
		Meta:            meta,
	}).Error
}
