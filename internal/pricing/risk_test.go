package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotewise/quote-cli/internal/model"
)

func approvedDecision(netPct float64, breakdown ...string) model.QuoteDecision {
	base := 100.0
	unit := base * (1 + netPct/100)
	total := unit * 10
	return model.QuoteDecision{
		ProductName:                  "Trail Backpack",
		QuantityRequested:            10,
		ApprovedForQuote:             true,
		BaseSingleUnitPrice:          &base,
		FinalSingleUnitPrice:         &unit,
		TotalPrice:                   &total,
		NetPriceAdjustmentPercentage: &netPct,
		ReasoningBreakdown:           breakdown,
		Status:                       model.StatusAvailable,
	}
}

func TestAssessRisk_RejectedIsLow(t *testing.T) {
	d := model.QuoteDecision{
		ProductName: "Desk Lamp",
		Status:      "Product 'Desk Lamp' not found in inventory.",
	}
	risk := AssessRisk(d, 25)
	assert.Equal(t, model.RiskLow, risk.Level)
	assert.Contains(t, risk.Summary, "poses no pricing risk")
	assert.Contains(t, risk.Summary, "not found in inventory")
}

func TestAssessRisk_ModestDiscountIsLow(t *testing.T) {
	risk := AssessRisk(approvedDecision(-12.5, "Bulk Order Discount: For ordering 10 units (5+)."), 25)
	assert.Equal(t, model.RiskLow, risk.Level)
	assert.Contains(t, risk.Summary, "passed all checks")
}

func TestAssessRisk_DeepDiscountIsHigh(t *testing.T) {
	risk := AssessRisk(approvedDecision(-27.5), 25)
	require.Equal(t, model.RiskHigh, risk.Level)
	require.Len(t, risk.Reasons, 1)
	assert.Contains(t, risk.Reasons[0], "27.5%")
	assert.Contains(t, risk.Reasons[0], "exceeds the maximum of 25.0%")
}

func TestAssessRisk_CappedDiscountFlagged(t *testing.T) {
	risk := AssessRisk(approvedDecision(-20, "Capped: Net adjustment limited to -50.0% by discount floor."), 25)
	require.Equal(t, model.RiskHigh, risk.Level)
	assert.Contains(t, risk.Reasons[0], "automatically capped")
}
