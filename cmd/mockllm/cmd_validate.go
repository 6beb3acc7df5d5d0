package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mockllm/mockllm/internal/config"
	"github.com/mockllm/mockllm/internal/resolve"
)

var flagType string

func init() {
	validateCmd.Flags().StringVarP(&flagType, "type", "t", "", `file type: "config" or "module" (detected from extension when empty)`)
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a response config file or response module",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	kind := flagType
	if kind == "" {
		if filepath.Ext(path) == ".so" {
			kind = "module"
		} else {
			kind = "config"
		}
	}

	switch kind {
	case "module":
		if err := resolve.ValidatePlugin(path); err != nil {
			return fmt.Errorf("invalid response module: %w", err)
		}
		fmt.Printf("Valid response module: %s exports %s\n", path, resolve.GetResponseSymbol)
	case "config":
		snap, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("invalid config file: %w", err)
		}
		fmt.Printf("Valid config file: %d responses\n", len(snap.Responses))
	default:
		return fmt.Errorf("unknown type %q (want config or module)", kind)
	}
	return nil
}
