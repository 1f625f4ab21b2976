package inventory

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockyard.GO/core/errs"
	inventoryEntity "stockyard.GO/model/entity/inventory"
	materialEntity "stockyard.GO/model/entity/material"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&materialEntity.Material{},
		&inventoryEntity.Batch{},
		&inventoryEntity.CompositionEntry{},
		&inventoryEntity.StockTransaction{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func seedMaterial(t *testing.T, db *gorm.DB, code string) *materialEntity.Material {
	t.Helper()
	mat := &materialEntity.Material{
		Code:              code,
		Name:              "Test " + code,
		Unit:              "pcs",
		StandardPrice:     mustDec(t, "10"),
		MinimumStockLevel: mustDec(t, "5"),
	}
	if err := db.Create(mat).Error; err != nil {
		t.Fatalf("seed material: %v", err)
	}
	return mat
}

func TestCreateOpeningBatch(t *testing.T) {
	db := testDB(t)
	mat := seedMaterial(t, db, "OIL")
	repo := NewBatchRepository(db)

	batch, err := repo.CreateOpeningBatch(mat.MaterialID, mustDec(t, "850"), mustDec(t, "3.5"), "MAIN-YARD", "initial count", "opening", "")
	if err != nil {
		t.Fatalf("CreateOpeningBatch: %v", err)
	}
	if batch.BatchID == 0 {
		t.Error("BatchID not set")
	}
	if batch.BatchNumber == "" {
		t.Error("BatchNumber not generated")
	}

	txs, err := repo.ListTransactions(mat.MaterialID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("len(transactions) = %d, want 1", len(txs))
	}
	if txs[0].TransactionType != inventoryEntity.TransactionTypeOpening {
		t.Errorf("TransactionType = %s, want opening", txs[0].TransactionType)
	}
	if !txs[0].QuantityDelta.Equal(mustDec(t, "850")) {
		t.Errorf("QuantityDelta = %s, want 850", txs[0].QuantityDelta)
	}
}

func TestCreateOpeningBatch_NegativeRejected(t *testing.T) {
	db := testDB(t)
	mat := seedMaterial(t, db, "OIL")

	_, err := NewBatchRepository(db).CreateOpeningBatch(mat.MaterialID, mustDec(t, "-1"), decimal.Zero, "", "", "opening", "")
	if !errs.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestCreateOpeningBatch_UnknownMaterial(t *testing.T) {
	db := testDB(t)

	_, err := NewBatchRepository(db).CreateOpeningBatch(999, mustDec(t, "1"), decimal.Zero, "", "", "opening", "")
	if !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestSetBatchQuantity(t *testing.T) {
	db := testDB(t)
	mat := seedMaterial(t, db, "OIL")
	repo := NewBatchRepository(db)

	batch, err := repo.CreateOpeningBatch(mat.MaterialID, mustDec(t, "100"), mustDec(t, "3"), "", "", "opening", "")
	if err != nil {
		t.Fatalf("CreateOpeningBatch: %v", err)
	}

	updated, err := repo.SetBatchQuantity(batch.BatchID, mustDec(t, "70"), "recount", "", "req-1")
	if err != nil {
		t.Fatalf("SetBatchQuantity: %v", err)
	}
	if !updated.Quantity.Equal(mustDec(t, "70")) {
		t.Errorf("Quantity = %s, want 70", updated.Quantity)
	}

	txs, _ := repo.ListTransactions(mat.MaterialID)
	if len(txs) != 2 {
		t.Fatalf("len(transactions) = %d, want 2", len(txs))
	}
	// newest first
	if !txs[0].QuantityDelta.Equal(mustDec(t, "-30")) {
		t.Errorf("QuantityDelta = %s, want -30", txs[0].QuantityDelta)
	}
	if txs[0].RequestID != "req-1" {
		t.Errorf("RequestID = %s, want req-1", txs[0].RequestID)
	}
}

func TestSetBatchQuantity_ZeroPersistsBatch(t *testing.T) {
	db := testDB(t)
	mat := seedMaterial(t, db, "OIL")
	repo := NewBatchRepository(db)

	batch, _ := repo.CreateOpeningBatch(mat.MaterialID, mustDec(t, "10"), decimal.Zero, "", "", "opening", "")
	if _, err := repo.SetBatchQuantity(batch.BatchID, decimal.Zero, "recount", "", ""); err != nil {
		t.Fatalf("SetBatchQuantity: %v", err)
	}

	batches, err := repo.ListBatches(mat.MaterialID)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("len(batches) = %d, want 1 (zero-quantity batch persists)", len(batches))
	}
	if !batches[0].Quantity.IsZero() {
		t.Errorf("Quantity = %s, want 0", batches[0].Quantity)
	}
}

func TestSetBatchQuantity_Errors(t *testing.T) {
	db := testDB(t)
	repo := NewBatchRepository(db)

	if _, err := repo.SetBatchQuantity(999, mustDec(t, "1"), "recount", "", ""); !errs.IsNotFound(err) {
		t.Errorf("unknown batch: err = %v, want NotFoundError", err)
	}
	if _, err := repo.SetBatchQuantity(1, mustDec(t, "-5"), "recount", "", ""); !errs.IsValidation(err) {
		t.Errorf("negative quantity: err = %v, want ValidationError", err)
	}
}

func TestSummarize(t *testing.T) {
	db := testDB(t)
	mat := seedMaterial(t, db, "OIL")
	repo := NewBatchRepository(db)

	repo.CreateOpeningBatch(mat.MaterialID, mustDec(t, "100"), mustDec(t, "3"), "", "", "opening", "")
	repo.CreateOpeningBatch(mat.MaterialID, mustDec(t, "50"), mustDec(t, "4.5"), "", "", "opening", "")

	s, err := repo.Summarize(mat.MaterialID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !s.CurrentStock.Equal(mustDec(t, "150")) {
		t.Errorf("CurrentStock = %s, want 150", s.CurrentStock)
	}
	if !s.TotalValue.Equal(mustDec(t, "525")) {
		t.Errorf("TotalValue = %s, want 525", s.TotalValue)
	}
	if !s.AverageCost.Equal(mustDec(t, "3.5")) {
		t.Errorf("AverageCost = %s, want 3.5", s.AverageCost)
	}
	if s.BatchCount != 2 {
		t.Errorf("BatchCount = %d, want 2", s.BatchCount)
	}
}

func TestSummarize_NoBatches(t *testing.T) {
	db := testDB(t)
	mat := seedMaterial(t, db, "OIL")

	s, err := NewBatchRepository(db).Summarize(mat.MaterialID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !s.CurrentStock.IsZero() {
		t.Errorf("CurrentStock = %s, want 0", s.CurrentStock)
	}
	if !s.AverageCost.Equal(mat.StandardPrice) {
		t.Errorf("AverageCost = %s, want standard price fallback %s", s.AverageCost, mat.StandardPrice)
	}
}

func TestSummarize_UnknownMaterial(t *testing.T) {
	db := testDB(t)
	if _, err := NewBatchRepository(db).Summarize(999); !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
