package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stockyard.GO/config"
	inventoryService "stockyard.GO/service/inventory"
)

var alertsCmd = &cobra.Command{
	Use:   "stock:alerts",
	Short: "Print the current low-stock alert feed",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}

		alerts, err := inventoryService.NewStatusEngine(db).Alerts()
		if err != nil {
			fmt.Printf("Alert scan failed: %v\n", err)
			os.Exit(1)
		}

		if len(alerts) == 0 {
			fmt.Println("No alerts.")
			return
		}
		for _, a := range alerts {
			fmt.Printf("[%-8s] %-20s stock=%s reorder=%s %s\n", a.Severity, a.Code, a.CurrentStock, a.ReorderLevel, a.Unit)
		}
		fmt.Printf("%d alert(s)\n", len(alerts))
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
}
