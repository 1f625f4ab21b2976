package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var bannerFonts = []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}

var rootCmd = &cobra.Command{
	Use:   "stockyard",
	Short: "Stockyard inventory accounting CLI",
	Run: func(cmd *cobra.Command, args []string) {
		fig := figure.NewFigure("Stockyard", bannerFonts[rand.Intn(len(bannerFonts))], true)
		fig.Print()
		fmt.Println()
		_ = cmd.Help()
	},
}

// Execute runs the root command. Registered extension commands are applied first.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
