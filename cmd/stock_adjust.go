package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stockyard.GO/config"
	materialRepo "stockyard.GO/model/repository/material"
	inventoryService "stockyard.GO/service/inventory"
)

var (
	adjustCode     string
	adjustType     string
	adjustQuantity string
	adjustReason   string
	adjustText     string
	adjustNotes    string
)

var adjustCmd = &cobra.Command{
	Use:   "stock:adjust",
	Short: "Adjust stock for a simple material",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}

		mat, err := materialRepo.NewMaterialRepository(db).FindByCode(adjustCode)
		if err != nil {
			fmt.Printf("Material lookup failed: %v\n", err)
			os.Exit(1)
		}

		qty, err := decimal.NewFromString(adjustQuantity)
		if err != nil {
			fmt.Printf("Bad quantity %q: %v\n", adjustQuantity, err)
			os.Exit(1)
		}

		coordinator := inventoryService.NewAdjustmentCoordinator(db)
		res, err := coordinator.Adjust(inventoryService.AdjustmentRequest{
			MaterialID: mat.MaterialID,
			Type:       inventoryService.AdjustmentType(adjustType),
			Quantity:   qty,
			Reason: inventoryService.AdjustmentReason{
				Code:       inventoryService.ReasonCode(adjustReason),
				CustomText: adjustText,
			},
			Notes: adjustNotes,
		})
		if err != nil {
			fmt.Printf("Adjustment failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Adjustment %s applied to %s\n", res.RequestID, mat.Code)
		fmt.Printf("  delta:   %s %s\n", res.Delta, mat.Unit)
		fmt.Printf("  stock:   %s -> %s\n", res.PreviousStock, res.Summary.CurrentStock)
	},
}

func init() {
	adjustCmd.Flags().StringVarP(&adjustCode, "code", "c", "", "Material code (required)")
	adjustCmd.MarkFlagRequired("code")
	adjustCmd.Flags().StringVarP(&adjustType, "type", "t", "set", "Adjustment type: increase, decrease or set")
	adjustCmd.Flags().StringVarP(&adjustQuantity, "quantity", "q", "", "Quantity (required)")
	adjustCmd.MarkFlagRequired("quantity")
	adjustCmd.Flags().StringVarP(&adjustReason, "reason", "r", "recount", "Reason code: recount, damage, loss, return, correction or other")
	adjustCmd.Flags().StringVar(&adjustText, "reason-text", "", "Free-text reason (required with --reason other)")
	adjustCmd.Flags().StringVar(&adjustNotes, "notes", "", "Optional notes for the audit trail")
	rootCmd.AddCommand(adjustCmd)
}
