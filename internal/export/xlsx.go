// Package export renders assembled quotations into shareable artifacts.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/quotewise/quote-cli/internal/model"
)

// WriteXLSX writes a quotation workbook: a Quotation sheet with one row per
// line item, a Reasoning sheet with the per-item adjustment breakdown, and an
// Events sheet listing the market events that informed pricing.
func WriteXLSX(q *model.Quotation, path string) error {
	f := xlsx.NewFile()

	if err := writeQuotationSheet(f, q); err != nil {
		return err
	}
	if err := writeReasoningSheet(f, q); err != nil {
		return err
	}
	if err := writeEventsSheet(f, q); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "export: save workbook %s", path)
}

func writeQuotationSheet(f *xlsx.File, q *model.Quotation) error {
	sheet, err := f.AddSheet("Quotation")
	if err != nil {
		return eris.Wrap(err, "export: add quotation sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Product", "Quantity", "Base Unit Price", "Final Unit Price", "Net Adjustment %", "Total", "Status"} {
		header.AddCell().SetString(h)
	}

	for _, d := range q.Decisions {
		row := sheet.AddRow()
		row.AddCell().SetString(d.ProductName)
		row.AddCell().SetInt(d.QuantityRequested)
		addMoneyCell(row, d.BaseSingleUnitPrice)
		addMoneyCell(row, d.FinalSingleUnitPrice)
		if d.NetPriceAdjustmentPercentage != nil {
			row.AddCell().SetString(fmt.Sprintf("%.1f%%", *d.NetPriceAdjustmentPercentage))
		} else {
			row.AddCell().SetString("")
		}
		addMoneyCell(row, d.TotalPrice)
		row.AddCell().SetString(d.Status)
	}

	if q.Subtotal != nil {
		sheet.AddRow()
		row := sheet.AddRow()
		row.AddCell().SetString("Subtotal")
		for i := 0; i < 4; i++ {
			row.AddCell().SetString("")
		}
		row.AddCell().SetFloatWithFormat(*q.Subtotal, "0.00")
		row.AddCell().SetString("")
	}
	return nil
}

func writeReasoningSheet(f *xlsx.File, q *model.Quotation) error {
	sheet, err := f.AddSheet("Reasoning")
	if err != nil {
		return eris.Wrap(err, "export: add reasoning sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Product")
	header.AddCell().SetString("Adjustment")

	for _, d := range q.Decisions {
		if len(d.ReasoningBreakdown) == 0 {
			continue
		}
		for _, line := range d.ReasoningBreakdown {
			row := sheet.AddRow()
			row.AddCell().SetString(d.ProductName)
			row.AddCell().SetString(line)
		}
	}
	return nil
}

func writeEventsSheet(f *xlsx.File, q *model.Quotation) error {
	sheet, err := f.AddSheet("Events")
	if err != nil {
		return eris.Wrap(err, "export: add events sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Event", "Category", "Start Date", "Days Remaining"} {
		header.AddCell().SetString(h)
	}

	for _, e := range q.Events {
		row := sheet.AddRow()
		row.AddCell().SetString(e.Name)
		row.AddCell().SetString(string(e.Category))
		row.AddCell().SetString(e.StartDate.Format("2006-01-02"))
		row.AddCell().SetInt(e.DaysRemaining)
	}
	return nil
}

func addMoneyCell(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v == nil {
		cell.SetString("")
		return
	}
	cell.SetFloatWithFormat(*v, "0.00")
}
