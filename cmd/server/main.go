// Package main is the entry point for the palette gRPC server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-palette/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-palette",
	Short: "L5R action palette gRPC server",
	Long: `rpg-palette builds token action palettes for Legend of the Five Rings
actors and dispatches palette clicks to whatever roll, dialog and chat
handlers the host script exposes.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
