package apitest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	stockApi "stockyard.GO/api/stock"
	entity "stockyard.GO/model/entity"
	inventoryEntity "stockyard.GO/model/entity/inventory"
	materialEntity "stockyard.GO/model/entity/material"
	inventoryRepo "stockyard.GO/model/repository/inventory"
)

const (
	testUser = "admin"
	testPass = "secret"
)

func stockTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("stock_api_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(
		&materialEntity.Material{},
		&inventoryEntity.Batch{},
		&inventoryEntity.CompositionEntry{},
		&inventoryEntity.StockTransaction{},
		&entity.ApiToken{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func stockTestServer(t *testing.T, db *gorm.DB) *echo.Echo {
	t.Helper()
	e := echo.New()
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.BasicAuth(func(user, pass string, c echo.Context) (bool, error) {
		return user == testUser && pass == testPass, nil
	}))
	stockApi.RegisterStockRoutes(apiGroup, db)
	return e
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func doJSON(e *echo.Echo, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedTestMaterial(t *testing.T, db *gorm.DB, code string, reorder string, composite bool) *materialEntity.Material {
	t.Helper()
	lvl, err := decimal.NewFromString(reorder)
	if err != nil {
		t.Fatalf("decimal %q: %v", reorder, err)
	}
	mat := &materialEntity.Material{
		Code:              code,
		Name:              "Test " + code,
		Unit:              "pcs",
		StandardPrice:     decimal.New(10, 0),
		MinimumStockLevel: lvl,
		IsComposite:       composite,
	}
	if err := db.Create(mat).Error; err != nil {
		t.Fatalf("seed material: %v", err)
	}
	return mat
}

func seedTestBatch(t *testing.T, db *gorm.DB, materialID uint, qty string) *inventoryEntity.Batch {
	t.Helper()
	q, _ := decimal.NewFromString(qty)
	batch := &inventoryEntity.Batch{
		MaterialID:  materialID,
		BatchNumber: fmt.Sprintf("T-%d-%d", materialID, time.Now().UnixNano()),
		Quantity:    q,
		UnitCost:    decimal.New(3, 0),
	}
	if err := db.Create(batch).Error; err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	return batch
}

func seedTestComponent(t *testing.T, db *gorm.DB, compositeID, componentID uint, componentType, qtyPer string, sortOrder int) {
	t.Helper()
	q, _ := decimal.NewFromString(qtyPer)
	active := true
	entry := &inventoryEntity.CompositionEntry{
		CompositeID:          compositeID,
		ComponentID:          componentID,
		ComponentType:        componentType,
		QuantityPerComposite: q,
		Unit:                 "pcs",
		IsActive:             &active,
		SortOrder:            sortOrder,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}
}

// ---------- Auth tests ----------

func TestStockAPI_NoAuth_Returns401(t *testing.T) {
	db := stockTestDB(t)
	e := stockTestServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/stock/alerts", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestStockAPI_WrongCredentials_Returns401(t *testing.T) {
	db := stockTestDB(t)
	e := stockTestServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/stock/alerts", nil, basicAuth("wrong", "creds"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// ---------- Read endpoints ----------

func TestStockAPI_GetStock(t *testing.T) {
	db := stockTestDB(t)
	mat := seedTestMaterial(t, db, "OIL-USED", "10", false)
	seedTestBatch(t, db, mat.MaterialID, "850")
	e := stockTestServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/stock/OIL-USED", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["status"] != "good" {
		t.Errorf("status = %v, want good", resp["status"])
	}
	stock := resp["stock"].(map[string]interface{})
	if stock["current_stock"] != "850" {
		t.Errorf("current_stock = %v, want 850", stock["current_stock"])
	}
}

func TestStockAPI_GetStock_UnknownCode_Returns404(t *testing.T) {
	db := stockTestDB(t)
	e := stockTestServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/stock/GHOST", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestStockAPI_GetSummary(t *testing.T) {
	db := stockTestDB(t)
	mat := seedTestMaterial(t, db, "OIL-USED", "10", false)
	seedTestBatch(t, db, mat.MaterialID, "100")
	seedTestBatch(t, db, mat.MaterialID, "50")
	e := stockTestServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/stock/OIL-USED/summary", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["current_stock"] != "150" {
		t.Errorf("current_stock = %v, want 150", resp["current_stock"])
	}
	if resp["batch_count"] != float64(2) {
		t.Errorf("batch_count = %v, want 2", resp["batch_count"])
	}
}

func TestStockAPI_Alerts(t *testing.T) {
	db := stockTestDB(t)
	low := seedTestMaterial(t, db, "ACID-BATT", "10", false)
	seedTestBatch(t, db, low.MaterialID, "8")
	ok := seedTestMaterial(t, db, "OIL-USED", "10", false)
	seedTestBatch(t, db, ok.MaterialID, "500")
	e := stockTestServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/stock/alerts", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["count"] != float64(1) {
		t.Fatalf("count = %v, want 1, body: %s", resp["count"], rec.Body.String())
	}
	alerts := resp["alerts"].([]interface{})
	first := alerts[0].(map[string]interface{})
	if first["code"] != "ACID-BATT" {
		t.Errorf("alert code = %v, want ACID-BATT", first["code"])
	}
}

func TestStockAPI_CompositeStock_Bottleneck(t *testing.T) {
	db := stockTestDB(t)
	drum := seedTestMaterial(t, db, "DRUM-OIL-200", "3", true)
	oil := seedTestMaterial(t, db, "OIL-USED", "10", false)
	empty := seedTestMaterial(t, db, "DRUM-EMPTY", "2", false)
	seedTestBatch(t, db, oil.MaterialID, "850")
	seedTestBatch(t, db, empty.MaterialID, "5")
	seedTestComponent(t, db, drum.MaterialID, oil.MaterialID, inventoryEntity.ComponentTypeContent, "200", 0)
	seedTestComponent(t, db, drum.MaterialID, empty.MaterialID, inventoryEntity.ComponentTypeContainer, "1", 1)
	e := stockTestServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/stock/DRUM-OIL-200", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	stock := resp["stock"].(map[string]interface{})
	if stock["current_stock"] != "4" {
		t.Errorf("current_stock = %v, want 4", stock["current_stock"])
	}
}

// ---------- Adjustment endpoint ----------

func TestStockAPI_Adjust_Increase(t *testing.T) {
	db := stockTestDB(t)
	mat := seedTestMaterial(t, db, "OIL-USED", "10", false)
	seedTestBatch(t, db, mat.MaterialID, "100")
	e := stockTestServer(t, db)

	body := map[string]interface{}{
		"code":     "OIL-USED",
		"type":     "increase",
		"quantity": "25",
		"reason":   map[string]string{"code": "return"},
	}
	rec := doJSON(e, http.MethodPost, "/api/stock/adjust", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["outcome"] != "SUCCEEDED" {
		t.Errorf("outcome = %v, want SUCCEEDED", resp["outcome"])
	}

	s, err := inventoryRepo.NewBatchRepository(db).Summarize(mat.MaterialID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.CurrentStock.String() != "125" {
		t.Errorf("stock after increase = %s, want 125", s.CurrentStock)
	}
}

func TestStockAPI_Adjust_InvalidJSON_Returns400(t *testing.T) {
	db := stockTestDB(t)
	e := stockTestServer(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/stock/adjust", bytes.NewReader([]byte("{invalid")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", basicAuth(testUser, testPass))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStockAPI_Adjust_MissingQuantity_Returns400(t *testing.T) {
	db := stockTestDB(t)
	seedTestMaterial(t, db, "OIL-USED", "10", false)
	e := stockTestServer(t, db)

	body := map[string]interface{}{
		"code":   "OIL-USED",
		"type":   "increase",
		"reason": map[string]string{"code": "return"},
	}
	rec := doJSON(e, http.MethodPost, "/api/stock/adjust", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStockAPI_Adjust_RuleViolations_Return400WithReasons(t *testing.T) {
	db := stockTestDB(t)
	mat := seedTestMaterial(t, db, "OIL-USED", "10", false)
	seedTestBatch(t, db, mat.MaterialID, "10")
	e := stockTestServer(t, db)

	// over-decrease plus "other" without text collects both violations
	body := map[string]interface{}{
		"code":     "OIL-USED",
		"type":     "decrease",
		"quantity": "50",
		"reason":   map[string]string{"code": "other"},
	}
	rec := doJSON(e, http.MethodPost, "/api/stock/adjust", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	reasons := resp["reasons"].([]interface{})
	if len(reasons) != 2 {
		t.Errorf("len(reasons) = %d, want 2, body: %s", len(reasons), rec.Body.String())
	}
}

func TestStockAPI_Adjust_CompositeMaterial_Returns409(t *testing.T) {
	db := stockTestDB(t)
	seedTestMaterial(t, db, "DRUM-OIL-200", "3", true)
	e := stockTestServer(t, db)

	body := map[string]interface{}{
		"code":     "DRUM-OIL-200",
		"type":     "increase",
		"quantity": "1",
		"reason":   map[string]string{"code": "recount"},
	}
	rec := doJSON(e, http.MethodPost, "/api/stock/adjust", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409, body: %s", rec.Code, rec.Body.String())
	}
}

// ---------- Composite fan-out endpoint ----------

func compositeFixture(t *testing.T, db *gorm.DB) (oil, empty *materialEntity.Material) {
	t.Helper()
	drum := seedTestMaterial(t, db, "DRUM-OIL-200", "3", true)
	oil = seedTestMaterial(t, db, "OIL-USED", "10", false)
	empty = seedTestMaterial(t, db, "DRUM-EMPTY", "2", false)
	seedTestBatch(t, db, oil.MaterialID, "850")
	seedTestBatch(t, db, empty.MaterialID, "5")
	seedTestComponent(t, db, drum.MaterialID, oil.MaterialID, inventoryEntity.ComponentTypeContent, "200", 0)
	seedTestComponent(t, db, drum.MaterialID, empty.MaterialID, inventoryEntity.ComponentTypeContainer, "1", 1)
	return oil, empty
}

func TestStockAPI_AdjustComposite_AllSucceed(t *testing.T) {
	db := stockTestDB(t)
	oil, _ := compositeFixture(t, db)
	e := stockTestServer(t, db)

	body := map[string]interface{}{
		"code": "DRUM-OIL-200",
		"targets": []map[string]interface{}{
			{"material_id": oil.MaterialID, "target": "900"},
		},
		"reason": map[string]string{"code": "recount"},
	}
	rec := doJSON(e, http.MethodPost, "/api/stock/adjust/composite", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["outcome"] != "SUCCEEDED" {
		t.Errorf("outcome = %v, want SUCCEEDED", resp["outcome"])
	}

	s, _ := inventoryRepo.NewBatchRepository(db).Summarize(oil.MaterialID)
	if s.CurrentStock.String() != "900" {
		t.Errorf("oil stock = %s, want 900", s.CurrentStock)
	}
}

func TestStockAPI_AdjustComposite_PartialFailure_Returns207(t *testing.T) {
	db := stockTestDB(t)
	oil, empty := compositeFixture(t, db)
	e := stockTestServer(t, db)

	body := map[string]interface{}{
		"code": "DRUM-OIL-200",
		"targets": []map[string]interface{}{
			{"material_id": oil.MaterialID, "target": "900"},
			{"material_id": empty.MaterialID, "target": "-1"},
		},
		"reason": map[string]string{"code": "recount"},
	}
	rec := doJSON(e, http.MethodPost, "/api/stock/adjust/composite", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["outcome"] != "PARTIALLY_SUCCEEDED" {
		t.Errorf("outcome = %v, want PARTIALLY_SUCCEEDED", resp["outcome"])
	}

	// the successful component write is kept
	s, _ := inventoryRepo.NewBatchRepository(db).Summarize(oil.MaterialID)
	if s.CurrentStock.String() != "900" {
		t.Errorf("oil stock = %s, want 900", s.CurrentStock)
	}
}

func TestStockAPI_AdjustComposite_NonComponentTarget_Returns400(t *testing.T) {
	db := stockTestDB(t)
	compositeFixture(t, db)
	stranger := seedTestMaterial(t, db, "GLOVES", "1", false)
	e := stockTestServer(t, db)

	body := map[string]interface{}{
		"code": "DRUM-OIL-200",
		"targets": []map[string]interface{}{
			{"material_id": stranger.MaterialID, "target": "5"},
		},
		"reason": map[string]string{"code": "recount"},
	}
	rec := doJSON(e, http.MethodPost, "/api/stock/adjust/composite", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
}

func TestStockAPI_AdjustPlan(t *testing.T) {
	db := stockTestDB(t)
	compositeFixture(t, db)
	e := stockTestServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/stock/DRUM-OIL-200/adjust-plan", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	components := resp["components"].([]interface{})
	if len(components) != 2 {
		t.Errorf("len(components) = %d, want 2", len(components))
	}
}

// ---------- Token auth ----------

const testStaticKey = "my_static_api_key_123"

func tokenAuthServer(t *testing.T, db *gorm.DB, staticKey string) *echo.Echo {
	t.Helper()
	e := echo.New()
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(token string, c echo.Context) (bool, error) {
			if staticKey != "" && token == staticKey {
				return true, nil
			}
			var count int64
			db.Table("api_token").
				Where("token = ? AND revoked = 0", token).
				Count(&count)
			return count > 0, nil
		},
	}))
	stockApi.RegisterStockRoutes(apiGroup, db)
	return e
}

func seedToken(t *testing.T, db *gorm.DB, token string, revoked uint16) {
	t.Helper()
	tk := entity.ApiToken{Token: token, Label: "test", Revoked: revoked}
	if err := db.Create(&tk).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}
}

func TestStockAPI_TokenAuth_ValidToken(t *testing.T) {
	db := stockTestDB(t)
	seedToken(t, db, "valid_test_token_123", 0)
	e := tokenAuthServer(t, db, testStaticKey)

	rec := doJSON(e, http.MethodGet, "/api/stock/alerts", nil, "Bearer valid_test_token_123")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
}

func TestStockAPI_TokenAuth_RevokedToken(t *testing.T) {
	db := stockTestDB(t)
	seedToken(t, db, "revoked_token_abc", 1)
	e := tokenAuthServer(t, db, testStaticKey)

	rec := doJSON(e, http.MethodGet, "/api/stock/alerts", nil, "Bearer revoked_token_abc")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestStockAPI_TokenAuth_StaticKey(t *testing.T) {
	db := stockTestDB(t)
	e := tokenAuthServer(t, db, testStaticKey)

	rec := doJSON(e, http.MethodGet, "/api/stock/alerts", nil, "Bearer "+testStaticKey)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
}

func TestStockAPI_TokenAuth_StaticKeyDoesNotBypassWhenEmpty(t *testing.T) {
	db := stockTestDB(t)
	e := tokenAuthServer(t, db, "")

	rec := doJSON(e, http.MethodGet, "/api/stock/alerts", nil, "Bearer random_thing")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
