//go:build cli
// +build cli

package main

import (
	_ "stockyard.GO/custom"

	"stockyard.GO/cmd"
	"stockyard.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
