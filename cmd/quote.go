package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quotewise/quote-cli/internal/events"
	"github.com/quotewise/quote-cli/internal/export"
	"github.com/quotewise/quote-cli/internal/model"
	"github.com/quotewise/quote-cli/internal/quote"
)

var (
	quoteEventsPath string
	quoteXLSXPath   string
	quoteJSON       bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <request-file>",
	Short: "Decide and assemble a quotation from a request file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req, err := quote.LoadRequest(args[0])
		if err != nil {
			return err
		}

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		var qualified []model.QualifiedEvent
		if quoteEventsPath != "" {
			scout, err := newScout()
			if err != nil {
				return err
			}
			candidates, err := events.LoadCandidates(quoteEventsPath)
			if err != nil {
				return err
			}
			if qualified, err = scout.Qualify(ctx, candidates, time.Now()); err != nil {
				return err
			}
			zap.L().Info("event scout complete",
				zap.Int("candidates", len(candidates)),
				zap.Int("qualified", len(qualified)),
			)
		}

		q, err := newAssembler(s).Assemble(ctx, *req, qualified)
		if err != nil {
			return err
		}

		if quoteJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(q); err != nil {
				return err
			}
		} else {
			printQuotation(q)
		}

		if quoteXLSXPath != "" {
			if err := export.WriteXLSX(q, quoteXLSXPath); err != nil {
				return err
			}
			fmt.Printf("\nWorkbook written to %s\n", quoteXLSXPath)
		}

		return nil
	},
}

func printQuotation(q *model.Quotation) {
	p := message.NewPrinter(language.English)

	fmt.Printf("Quotation %s", q.ID)
	if q.Customer != "" {
		fmt.Printf(" for %s", q.Customer)
	}
	fmt.Println()

	for _, d := range q.Decisions {
		if !d.ApprovedForQuote {
			fmt.Printf("  [rejected] %s x%d: %s\n", d.ProductName, d.QuantityRequested, d.Status)
			continue
		}
		p.Printf("  [approved] %s x%d: %.2f/unit, total %.2f (%+.1f%%)\n",
			d.ProductName, d.QuantityRequested,
			*d.FinalSingleUnitPrice, *d.TotalPrice, *d.NetPriceAdjustmentPercentage)
		for _, line := range d.ReasoningBreakdown {
			fmt.Printf("             - %s\n", line)
		}
	}

	for _, r := range q.Risk {
		if r.Level != model.RiskHigh {
			continue
		}
		for _, reason := range r.Reasons {
			fmt.Printf("  [risk] %s\n", reason)
		}
	}

	if q.Subtotal != nil {
		p.Printf("  Subtotal: %.2f\n", *q.Subtotal)
	}
}

func init() {
	quoteCmd.Flags().StringVar(&quoteEventsPath, "events", "", "market event candidates file (YAML)")
	quoteCmd.Flags().StringVar(&quoteXLSXPath, "xlsx", "", "write quotation workbook to this path")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "print the full quotation as JSON")
	rootCmd.AddCommand(quoteCmd)
}
