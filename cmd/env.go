package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/quotewise/quote-cli/internal/events"
	"github.com/quotewise/quote-cli/internal/inventory"
	"github.com/quotewise/quote-cli/internal/pricing"
	"github.com/quotewise/quote-cli/internal/quote"
	"github.com/quotewise/quote-cli/internal/store"
	"github.com/quotewise/quote-cli/pkg/anthropic"
)

// openStore builds the configured store backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite", "":
		s, err = store.NewSQLite(cfg.Store.DSN)
	case "postgres":
		s, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// newScout builds the event scout with the configured classifier.
func newScout() (*events.Scout, error) {
	var classifier events.Classifier
	switch cfg.Events.Classifier {
	case "claude":
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("events.classifier is claude but anthropic.key is unset")
		}
		client := anthropic.NewClient(cfg.Anthropic.Key)
		classifier = events.NewClaudeClassifier(client, cfg.Anthropic.Model, cfg.Anthropic.RequestsPerSecond)
	case "table", "":
		classifier = events.TableClassifier{}
	default:
		return nil, eris.Errorf("unknown events classifier %q", cfg.Events.Classifier)
	}
	return events.NewScout(classifier, cfg.Events.LookaheadDays), nil
}

// newAssembler wires the quotation pipeline over the given store.
func newAssembler(s store.Store) *quote.Assembler {
	lookup := inventory.NewLookup(s, inventory.Matcher{
		Threshold:      cfg.Match.SimilarityThreshold,
		MaxSuggestions: cfg.Match.MaxSuggestions,
	})
	engine := pricing.NewEngine(cfg.Policy)
	return quote.NewAssembler(lookup, engine, s, cfg.Quote.MaxConcurrentItems, cfg.Policy.RiskMaxDiscountPct)
}
