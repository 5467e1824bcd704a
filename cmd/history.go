package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [quotation-id]",
	Short: "List saved quotations, or show one by ID",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 1 {
			q, err := s.GetQuotation(ctx, args[0])
			if err != nil {
				return err
			}
			if q == nil {
				fmt.Printf("Quotation %q not found.\n", args[0])
				return nil
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(q)
		}

		quotations, err := s.ListQuotations(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(quotations) == 0 {
			fmt.Println("No saved quotations.")
			return nil
		}

		for _, q := range quotations {
			subtotal := "-"
			if q.Subtotal != nil {
				subtotal = fmt.Sprintf("%.2f", *q.Subtotal)
			}
			customer := q.Customer
			if customer == "" {
				customer = "-"
			}
			fmt.Printf("%s  %s  %-24s items=%d subtotal=%s\n",
				q.CreatedAt.Format("2006-01-02 15:04"), q.ID, customer, len(q.Decisions), subtotal)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum quotations to list")
	rootCmd.AddCommand(historyCmd)
}
