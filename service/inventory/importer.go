package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockyard.GO/core/errs"
	materialEntity "stockyard.GO/model/entity/material"
	inventoryRepo "stockyard.GO/model/repository/inventory"
	materialRepo "stockyard.GO/model/repository/material"
)

// ImportOptions configures an opening stock import run.
type ImportOptions struct {
	Location string
	DryRun   bool
}

// ImportResult holds counters and timing from an import run.
type ImportResult struct {
	TotalRows        int
	MaterialsCreated int
	MaterialsUpdated int
	BatchesCreated   int
	Skipped          int
	Warnings         []string
	ProcessTime      time.Duration
	DBTime           time.Duration
	TotalTime        time.Duration
}

var importColumns = map[string]bool{
	"code": true, "name": true, "unit": true, "quantity": true,
	"unit_cost": true, "location": true, "reorder_level": true,
	"composite": true, "disposable": true, "notes": true,
}

type importRow struct {
	line         int
	code         string
	name         string
	unit         string
	quantity     decimal.Decimal
	hasQuantity  bool
	unitCost     decimal.Decimal
	location     string
	reorderLevel decimal.Decimal
	hasReorder   bool
	composite    bool
	disposable   bool
	notes        string
}

// ImportOpeningStock reads CSV data from r, upserts materials and creates an
// opening batch for every row that carries a quantity. Materials that already
// hold batches keep their ledger untouched and are reported as skipped.
func ImportOpeningStock(db *gorm.DB, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	startTotal := time.Now()

	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
	}

	codeCol := -1
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		colIndex[h] = i
		if h == "code" {
			codeCol = i
		}
	}
	if codeCol < 0 {
		return nil, fmt.Errorf("CSV must contain a 'code' column")
	}

	result := &ImportResult{}
	for _, h := range headers {
		if !importColumns[h] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("column %q: unknown, skipping", h))
		}
	}

	startProcess := time.Now()
	rows, err := parseImportRows(reader, colIndex, result)
	if err != nil {
		return nil, err
	}
	result.ProcessTime = time.Since(startProcess)
	result.TotalRows = len(rows)

	if opts.DryRun {
		result.TotalTime = time.Since(startTotal)
		return result, nil
	}

	startDB := time.Now()
	if err := applyImportRows(db, rows, opts, result); err != nil {
		return nil, err
	}
	result.DBTime = time.Since(startDB)
	result.TotalTime = time.Since(startTotal)
	return result, nil
}

func parseImportRows(reader *csv.Reader, colIndex map[string]int, result *ImportResult) ([]importRow, error) {
	field := func(rec []string, name string) string {
		if i, ok := colIndex[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var rows []importRow
	seen := make(map[string]int)
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v, skipping", line, err))
			result.Skipped++
			continue
		}

		row := importRow{line: line, code: field(rec, "code")}
		if row.code == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: empty code, skipping", line))
			result.Skipped++
			continue
		}
		if prev, ok := seen[row.code]; ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: duplicate code %q (first on line %d), skipping", line, row.code, prev))
			result.Skipped++
			continue
		}
		seen[row.code] = line

		row.name = field(rec, "name")
		row.unit = field(rec, "unit")
		row.location = field(rec, "location")
		row.notes = field(rec, "notes")
		row.composite = parseBool(field(rec, "composite"))
		row.disposable = parseBool(field(rec, "disposable"))

		if raw := field(rec, "quantity"); raw != "" {
			qty, err := decimal.NewFromString(raw)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: bad quantity %q, skipping", line, raw))
				result.Skipped++
				continue
			}
			row.quantity = qty
			row.hasQuantity = true
		}
		if raw := field(rec, "unit_cost"); raw != "" {
			cost, err := decimal.NewFromString(raw)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: bad unit_cost %q, skipping", line, raw))
				result.Skipped++
				continue
			}
			row.unitCost = cost
		}
		if raw := field(rec, "reorder_level"); raw != "" {
			lvl, err := decimal.NewFromString(raw)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: bad reorder_level %q, skipping", line, raw))
				result.Skipped++
				continue
			}
			row.reorderLevel = lvl
			row.hasReorder = true
		}

		rows = append(rows, row)
	}
	return rows, nil
}

func applyImportRows(db *gorm.DB, rows []importRow, opts ImportOptions, result *ImportResult) error {
	materials := materialRepo.NewMaterialRepository(db)
	batches := inventoryRepo.NewBatchRepository(db)

	for _, row := range rows {
		mat, err := materials.FindByCode(row.code)
		switch {
		case err == nil:
			updated, uerr := updateMaterial(db, mat, row)
			if uerr != nil {
				return fmt.Errorf("line %d: update %s: %w", row.line, row.code, uerr)
			}
			if updated {
				result.MaterialsUpdated++
			}
		case errs.IsNotFound(err):
			mat = &materialEntity.Material{
				Code:              row.code,
				Name:              row.name,
				Unit:              row.unit,
				MinimumStockLevel: row.reorderLevel,
				IsComposite:       row.composite,
				IsDisposable:      row.disposable,
			}
			if err := db.Create(mat).Error; err != nil {
				return fmt.Errorf("line %d: create %s: %w", row.line, row.code, err)
			}
			result.MaterialsCreated++
		default:
			return fmt.Errorf("line %d: lookup %s: %w", row.line, row.code, err)
		}

		if !row.hasQuantity || row.composite {
			continue
		}

		existing, err := batches.ListBatches(mat.MaterialID)
		if err != nil {
			return fmt.Errorf("line %d: batches %s: %w", row.line, row.code, err)
		}
		if len(existing) > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %s already has batches, opening stock skipped", row.line, row.code))
			result.Skipped++
			continue
		}

		location := row.location
		if location == "" {
			location = opts.Location
		}
		_, err = batches.CreateOpeningBatch(mat.MaterialID, row.quantity, row.unitCost, location, row.notes, "import", "")
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: opening batch %s: %v", row.line, row.code, err))
			result.Skipped++
			continue
		}
		result.BatchesCreated++
	}
	return nil
}

func updateMaterial(db *gorm.DB, mat *materialEntity.Material, row importRow) (bool, error) {
	changes := make(map[string]interface{})
	if row.name != "" && row.name != mat.Name {
		changes["name"] = row.name
	}
	if row.unit != "" && row.unit != mat.Unit {
		changes["unit"] = row.unit
	}
	if row.hasReorder && !row.reorderLevel.Equal(mat.MinimumStockLevel) {
		changes["minimum_stock_level"] = row.reorderLevel
	}
	if len(changes) == 0 {
		return false, nil
	}
	if err := db.Model(mat).Updates(changes).Error; err != nil {
		return false, err
	}
	return true, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
