package material

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockyard.GO/core/cache"
	"stockyard.GO/core/errs"
	materialEntity "stockyard.GO/model/entity/material"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&materialEntity.Material{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedMaterial(t *testing.T, db *gorm.DB, code, name string) *materialEntity.Material {
	t.Helper()
	mat := &materialEntity.Material{
		Code:              code,
		Name:              name,
		Unit:              "pcs",
		StandardPrice:     decimal.New(10, 0),
		MinimumStockLevel: decimal.New(5, 0),
	}
	if err := db.Create(mat).Error; err != nil {
		t.Fatalf("seed material: %v", err)
	}
	return mat
}

func TestFindByCode(t *testing.T) {
	db := testDB(t)
	seedMaterial(t, db, "OIL-USED", "Used Oil")
	repo := NewMaterialRepository(db)

	m, err := repo.FindByCode("OIL-USED")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if m.Name != "Used Oil" {
		t.Errorf("Name = %s, want Used Oil", m.Name)
	}

	if _, err := repo.FindByCode("MISSING"); !errs.IsNotFound(err) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestFindByID(t *testing.T) {
	db := testDB(t)
	mat := seedMaterial(t, db, "OIL-USED", "Used Oil")
	repo := NewMaterialRepository(db)

	m, err := repo.FindByID(mat.MaterialID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if m.Code != "OIL-USED" {
		t.Errorf("Code = %s, want OIL-USED", m.Code)
	}

	if _, err := repo.FindByID(999); !errs.IsNotFound(err) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestList_OrderedByCode(t *testing.T) {
	db := testDB(t)
	seedMaterial(t, db, "DRUM-EMPTY", "Empty Drum")
	seedMaterial(t, db, "ACID-BATT", "Battery Acid")
	repo := NewMaterialRepository(db)

	out, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Code != "ACID-BATT" || out[1].Code != "DRUM-EMPTY" {
		t.Errorf("order = [%s %s], want [ACID-BATT DRUM-EMPTY]", out[0].Code, out[1].Code)
	}
}

func TestListByIDs(t *testing.T) {
	db := testDB(t)
	a := seedMaterial(t, db, "A", "A")
	b := seedMaterial(t, db, "B", "B")
	repo := NewMaterialRepository(db)

	out, err := repo.ListByIDs([]uint{a.MaterialID, b.MaterialID, 999})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[a.MaterialID].Code != "A" {
		t.Errorf("out[%d].Code = %s, want A", a.MaterialID, out[a.MaterialID].Code)
	}
	if _, ok := out[999]; ok {
		t.Error("missing id must be absent from map")
	}

	empty, err := repo.ListByIDs(nil)
	if err != nil {
		t.Fatalf("ListByIDs(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("len(empty) = %d, want 0", len(empty))
	}
}

func TestFindByCode_Cached(t *testing.T) {
	db := testDB(t)
	mat := seedMaterial(t, db, "OIL-USED", "Used Oil")
	repo := NewMaterialRepository(db).WithCacheTTL(60)
	defer cache.GetInstance().DeleteByTag(CacheTag)

	if _, err := repo.FindByCode("OIL-USED"); err != nil {
		t.Fatalf("FindByCode: %v", err)
	}

	// rename behind the cache; the cached row must still be served
	if err := db.Model(mat).Update("name", "Renamed").Error; err != nil {
		t.Fatalf("update: %v", err)
	}
	m, err := repo.FindByCode("OIL-USED")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if m.Name != "Used Oil" {
		t.Errorf("Name = %s, want cached Used Oil", m.Name)
	}

	cache.GetInstance().DeleteByTag(CacheTag)
	m, err = repo.FindByCode("OIL-USED")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if m.Name != "Renamed" {
		t.Errorf("Name = %s, want Renamed after invalidation", m.Name)
	}
}
