// Package events implements the event scout: qualification of candidate
// market events against nationwide-impact criteria and ranking by proximity
// to a reference date, for use as pricing signals.
package events

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/quotewise/quote-cli/internal/model"
)

// Scout filters and ranks candidate market events. It is stateless: every
// call re-evaluates the candidate list from scratch.
type Scout struct {
	classifier    Classifier
	lookaheadDays int
}

// NewScout builds a scout. lookaheadDays bounds how far ahead an event may
// start and still count as a pricing signal; <= 0 disables the bound.
func NewScout(classifier Classifier, lookaheadDays int) *Scout {
	return &Scout{classifier: classifier, lookaheadDays: lookaheadDays}
}

// Qualify classifies the candidates and returns the qualifying ones annotated
// with days remaining from reference, sorted ascending by days remaining with
// ties broken by name. Events already started (negative days) or beyond the
// lookahead horizon are dropped. Distinct events sharing a date both survive.
func (s *Scout) Qualify(ctx context.Context, candidates []model.MarketEvent, reference time.Time) ([]model.QualifiedEvent, error) {
	verdicts, err := s.classifier.Classify(ctx, candidates)
	if err != nil {
		return nil, err
	}

	qualified := make([]model.QualifiedEvent, 0, len(candidates))
	for i, ev := range candidates {
		if !verdicts[i].Qualified {
			continue
		}

		days := daysUntil(reference, ev.StartDate)
		if days < 0 {
			continue
		}
		if s.lookaheadDays > 0 && days > s.lookaheadDays {
			continue
		}

		if ev.Category == "" {
			ev.Category = verdicts[i].Category
		}
		qualified = append(qualified, model.QualifiedEvent{MarketEvent: ev, DaysRemaining: days})
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].DaysRemaining != qualified[j].DaysRemaining {
			return qualified[i].DaysRemaining < qualified[j].DaysRemaining
		}
		return qualified[i].Name < qualified[j].Name
	})

	zap.L().Debug("events: qualification complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("qualified", len(qualified)),
	)

	return qualified, nil
}

// daysUntil computes whole days from reference to start, flooring. A range
// event contributes its start date only.
func daysUntil(reference, start time.Time) int {
	return int(math.Floor(start.Sub(reference).Hours() / 24))
}
