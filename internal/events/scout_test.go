package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotewise/quote-cli/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQualify_RegionalObservanceExcluded(t *testing.T) {
	ref := date(2026, 10, 1)
	candidates := []model.MarketEvent{
		{Name: "Diwali", StartDate: date(2026, 10, 20)},
		{Name: "Harvest Fair of Greenfield County", StartDate: date(2026, 10, 10), Region: "Greenfield County"},
	}

	scout := NewScout(TableClassifier{}, 45)
	got, err := scout.Qualify(context.Background(), candidates, ref)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Diwali", got[0].Name)
	assert.Equal(t, 19, got[0].DaysRemaining)
	assert.Equal(t, model.EventReligiousFestival, got[0].Category)
}

func TestQualify_SortedByProximityThenName(t *testing.T) {
	ref := date(2026, 11, 1)
	candidates := []model.MarketEvent{
		{Name: "Christmas", StartDate: date(2026, 12, 25)},
		{Name: "Cyber Monday", StartDate: date(2026, 11, 30)},
		{Name: "Black Friday Blowout", StartDate: date(2026, 11, 27)},
		{Name: "Black Friday", StartDate: date(2026, 11, 27)},
	}

	scout := NewScout(TableClassifier{}, 0)
	got, err := scout.Qualify(context.Background(), candidates, ref)
	require.NoError(t, err)

	require.Len(t, got, 4)
	names := make([]string, len(got))
	for i, q := range got {
		names[i] = q.Name
	}
	// Same-date distinct events both survive; ties break lexicographically.
	assert.Equal(t, []string{"Black Friday", "Black Friday Blowout", "Cyber Monday", "Christmas"}, names)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].DaysRemaining, got[i-1].DaysRemaining)
	}
}

func TestQualify_DropsPastAndBeyondLookahead(t *testing.T) {
	ref := date(2026, 11, 1)
	candidates := []model.MarketEvent{
		{Name: "Diwali", StartDate: date(2026, 10, 20)},    // already past
		{Name: "Christmas", StartDate: date(2026, 12, 25)}, // 54 days out
		{Name: "Black Friday", StartDate: date(2026, 11, 27)},
	}

	scout := NewScout(TableClassifier{}, 45)
	got, err := scout.Qualify(context.Background(), candidates, ref)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Black Friday", got[0].Name)
	for _, q := range got {
		assert.GreaterOrEqual(t, q.DaysRemaining, 0)
	}
}

func TestQualify_RangeEventKeyedByStartDate(t *testing.T) {
	ref := date(2026, 9, 20)
	candidates := []model.MarketEvent{
		{Name: "Big Billion Days", StartDate: date(2026, 9, 25), EndDate: date(2026, 10, 2)},
	}

	scout := NewScout(TableClassifier{}, 45)
	got, err := scout.Qualify(context.Background(), candidates, ref)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].DaysRemaining)
}

func TestQualify_SameDayIsZeroDaysRemaining(t *testing.T) {
	ref := date(2026, 12, 25)
	candidates := []model.MarketEvent{{Name: "Christmas", StartDate: date(2026, 12, 25)}}

	scout := NewScout(TableClassifier{}, 45)
	got, err := scout.Qualify(context.Background(), candidates, ref)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].DaysRemaining)
}

func TestDaysUntil_FloorsPartialDays(t *testing.T) {
	ref := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	start := date(2026, 10, 3)
	assert.Equal(t, 1, daysUntil(ref, start))
}
