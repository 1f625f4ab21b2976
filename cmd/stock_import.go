package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stockyard.GO/config"
	inventoryService "stockyard.GO/service/inventory"
)

var (
	importFile     string
	importLocation string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "stock:import",
	Short: "Import materials and opening stock from CSV",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(importFile)
		if err != nil {
			fmt.Printf("Failed to open CSV: %v\n", err)
			return
		}
		defer f.Close()

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		location := importLocation
		if location == "" {
			config.LoadAppConfig()
			location = config.AppConfig.DefaultLocation
		}

		res, err := inventoryService.ImportOpeningStock(db, f, inventoryService.ImportOptions{
			Location: location,
			DryRun:   importDryRun,
		})
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}

		fmt.Printf(`
=== Import Report ===
CSV rows:        %d
Materials new:   %d
Materials upd:   %d
Opening batches: %d
Skipped:         %d
Mode:            %s
Total time:      %s
  - Processing:  %s
  - DB:          %s
=====================
`, res.TotalRows, res.MaterialsCreated, res.MaterialsUpdated, res.BatchesCreated, res.Skipped,
			map[bool]string{true: "Dry run", false: "Apply"}[importDryRun],
			res.TotalTime.Round(time.Millisecond),
			res.ProcessTime.Round(time.Millisecond),
			res.DBTime.Round(time.Millisecond))
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file path (required)")
	importCmd.MarkFlagRequired("file")
	importCmd.Flags().StringVar(&importLocation, "location", "", "Default location for opening batches")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and report without writing")
	rootCmd.AddCommand(importCmd)
}
