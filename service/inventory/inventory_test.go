package inventory

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

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

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func seedMaterial(t *testing.T, db *gorm.DB, code, reorder string, composite bool) *materialEntity.Material {
	t.Helper()
	mat := &materialEntity.Material{
		Code:              code,
		Name:              "Test " + code,
		Unit:              "pcs",
		StandardPrice:     dec(t, "10"),
		MinimumStockLevel: dec(t, reorder),
		IsComposite:       composite,
	}
	if err := db.Create(mat).Error; err != nil {
		t.Fatalf("seed material %s: %v", code, err)
	}
	return mat
}

func seedBatch(t *testing.T, db *gorm.DB, materialID uint, qty, cost string) *inventoryEntity.Batch {
	t.Helper()
	batch := &inventoryEntity.Batch{
		MaterialID:  materialID,
		BatchNumber: "TEST-BATCH",
		Quantity:    dec(t, qty),
		UnitCost:    dec(t, cost),
	}
	if err := db.Create(batch).Error; err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	return batch
}

func seedComponent(t *testing.T, db *gorm.DB, compositeID, componentID uint, componentType, qtyPer string, sortOrder int) {
	t.Helper()
	active := true
	entry := &inventoryEntity.CompositionEntry{
		CompositeID:          compositeID,
		ComponentID:          componentID,
		ComponentType:        componentType,
		QuantityPerComposite: dec(t, qtyPer),
		Unit:                 "pcs",
		IsActive:             &active,
		SortOrder:            sortOrder,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}
}

func totalStock(t *testing.T, db *gorm.DB, materialID uint) decimal.Decimal {
	t.Helper()
	var batches []inventoryEntity.Batch
	if err := db.Where("material_id = ?", materialID).Find(&batches).Error; err != nil {
		t.Fatalf("load batches: %v", err)
	}
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Quantity)
	}
	return total
}
