package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quotewise/quote-cli/internal/inventory"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Product catalog operations",
}

var inventoryImportCmd = &cobra.Command{
	Use:   "import <catalog.csv>",
	Short: "Import a product catalog CSV into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := inventory.ImportCSV(ctx, s, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d products, %d competitor price sets", result.Products, result.PriceSets)
		if result.SkippedRows > 0 {
			fmt.Printf(" (%d rows skipped)", result.SkippedRows)
		}
		fmt.Println()
		return nil
	},
}

var inventoryShowCmd = &cobra.Command{
	Use:   "show <product-name>",
	Short: "Show a product's inventory record and competitor prices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		lookup := inventory.NewLookup(s, inventory.Matcher{
			Threshold:      cfg.Match.SimilarityThreshold,
			MaxSuggestions: cfg.Match.MaxSuggestions,
		})

		rec, suggestions, err := lookup.FindWithSuggestions(ctx, args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Printf("Product %q not found.\n", args[0])
			if len(suggestions) > 0 {
				fmt.Printf("Did you mean: %s?\n", strings.Join(suggestions, ", "))
			}
			return nil
		}

		prices, err := lookup.Prices(ctx, rec.ProductName)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Record      any `json:"record"`
			Competitors any `json:"competitors,omitempty"`
		}{rec, prices})
	},
}

func init() {
	inventoryCmd.AddCommand(inventoryImportCmd)
	inventoryCmd.AddCommand(inventoryShowCmd)
	rootCmd.AddCommand(inventoryCmd)
}
