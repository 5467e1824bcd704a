package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/quotewise/quote-cli/internal/model"
)

// AssessRisk grades the business risk of a single decision. Rejected items
// pose no pricing risk. Approved items are high risk when the net discount
// exceeds maxDiscountPct or when the discount floor clamped the adjustment.
func AssessRisk(decision model.QuoteDecision, maxDiscountPct float64) model.RiskAssessment {
	if !decision.ApprovedForQuote {
		return model.RiskAssessment{
			ProductName: decision.ProductName,
			Level:       model.RiskLow,
			Summary: fmt.Sprintf("Item '%s' poses no pricing risk as it is not being quoted. Reason: %s",
				decision.ProductName, decision.Status),
		}
	}

	var reasons []string

	if adj := decision.NetPriceAdjustmentPercentage; adj != nil && *adj < -maxDiscountPct {
		reasons = append(reasons, fmt.Sprintf(
			"Risk: Net discount for '%s' is %.1f%%, which exceeds the maximum of %.1f%%.",
			decision.ProductName, math.Abs(*adj), maxDiscountPct,
		))
	}

	for _, line := range decision.ReasoningBreakdown {
		if strings.HasPrefix(line, "Capped:") {
			reasons = append(reasons, fmt.Sprintf(
				"Heads-up: A discount for '%s' was automatically capped.", decision.ProductName))
		}
	}

	if len(reasons) == 0 {
		return model.RiskAssessment{
			ProductName: decision.ProductName,
			Level:       model.RiskLow,
			Summary:     fmt.Sprintf("Item '%s' passed all checks.", decision.ProductName),
		}
	}

	return model.RiskAssessment{
		ProductName: decision.ProductName,
		Level:       model.RiskHigh,
		Summary:     "High risk detected.",
		Reasons:     reasons,
	}
}
