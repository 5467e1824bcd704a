package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/quotewise/quote-cli/internal/model"
	"github.com/quotewise/quote-cli/internal/resilience"
	"github.com/quotewise/quote-cli/pkg/anthropic"
)

// Verdict is the classification outcome for one candidate event: whether it
// meets the nationwide-impact qualification criteria, and its category.
type Verdict struct {
	Qualified bool
	Category  model.EventCategory
}

// Classifier applies the qualification predicate to candidate events:
// nationwide recognition, documented retail sales impact, not a minor or
// regional observance, and commercial impact comparable to the benchmark set
// of major festivals, national holidays, and e-commerce sale events.
// Verdicts are returned in candidate order.
type Classifier interface {
	Classify(ctx context.Context, candidates []model.MarketEvent) ([]Verdict, error)
}

// benchmarkEvents is the curated rule table for TableClassifier: events with a
// documented history of nationwide retail impact, keyed by lowercase name.
var benchmarkEvents = map[string]model.EventCategory{
	"diwali":                model.EventReligiousFestival,
	"christmas":             model.EventReligiousFestival,
	"eid al-fitr":           model.EventReligiousFestival,
	"eid":                   model.EventReligiousFestival,
	"holi":                  model.EventReligiousFestival,
	"dussehra":              model.EventReligiousFestival,
	"navratri":              model.EventReligiousFestival,
	"raksha bandhan":        model.EventReligiousFestival,
	"easter":                model.EventReligiousFestival,
	"republic day":          model.EventNationalHoliday,
	"independence day":      model.EventNationalHoliday,
	"new year":              model.EventNationalHoliday,
	"thanksgiving":          model.EventNationalHoliday,
	"black friday":          model.EventCommercialEvent,
	"cyber monday":          model.EventCommercialEvent,
	"big billion days":      model.EventCommercialEvent,
	"great indian festival": model.EventCommercialEvent,
	"prime day":             model.EventCommercialEvent,
	"singles day":           model.EventCommercialEvent,
	"end of season sale":    model.EventCommercialEvent,
}

// nationwideRegions are Region values accepted as nationwide scope. An empty
// Region is treated as nationwide; anything else fails the regional exclusion
// regardless of name recognition.
var nationwideRegions = map[string]bool{
	"":           true,
	"nationwide": true,
	"national":   true,
}

// TableClassifier qualifies events against the curated benchmark table. It is
// pure and is the default classifier.
type TableClassifier struct{}

func (TableClassifier) Classify(_ context.Context, candidates []model.MarketEvent) ([]Verdict, error) {
	verdicts := make([]Verdict, len(candidates))
	for i, ev := range candidates {
		if !nationwideRegions[strings.ToLower(strings.TrimSpace(ev.Region))] {
			continue
		}
		name := strings.ToLower(ev.Name)
		for benchmark, category := range benchmarkEvents {
			if strings.Contains(name, benchmark) {
				verdicts[i] = Verdict{Qualified: true, Category: pickCategory(ev.Category, category)}
				break
			}
		}
	}
	return verdicts, nil
}

// pickCategory keeps a caller-supplied category over the table's default.
func pickCategory(supplied, fallback model.EventCategory) model.EventCategory {
	if supplied != "" {
		return supplied
	}
	return fallback
}

const classifySystemPrompt = `You qualify calendar events as retail pricing signals. An event qualifies only if ALL hold:
1. It is recognized and participated in nationwide, not regionally.
2. It has a documented history of materially affecting retail sales volume.
3. It is not a minor or regional observance, even a well-attended local one.
4. Its commercial impact is comparable to major religious/national festivals, major national holidays, or major multi-day e-commerce sale events.
Respond with a valid JSON object: {"qualified": <true|false>, "category": "national_holiday"|"religious_festival"|"commercial_event"}`

const classifyUserPrompt = `Event: %s
Date: %s
Region: %s`

// ClaudeClassifier qualifies events with a Claude model. Calls are
// rate-limited and retried on transient failures; an event whose verdict
// cannot be obtained or parsed is excluded rather than surfaced as an error.
type ClaudeClassifier struct {
	client  anthropic.Client
	model   string
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClaudeClassifier builds a classifier over the given client. requestsPerSecond
// bounds the call rate; values <= 0 fall back to 1 rps.
func NewClaudeClassifier(client anthropic.Client, modelID string, requestsPerSecond float64) *ClaudeClassifier {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &ClaudeClassifier{
		client:  client,
		model:   modelID,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		retry:   resilience.DefaultRetryConfig(),
	}
}

func (c *ClaudeClassifier) Classify(ctx context.Context, candidates []model.MarketEvent) ([]Verdict, error) {
	verdicts := make([]Verdict, len(candidates))
	for i, ev := range candidates {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		v, err := c.classifyOne(ctx, ev)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Unclassifiable events are excluded, not faults.
			zap.L().Warn("events: classification failed, excluding event",
				zap.String("event", ev.Name),
				zap.Error(err),
			)
			continue
		}
		verdicts[i] = v
	}
	return verdicts, nil
}

type verdictResponse struct {
	Qualified bool   `json:"qualified"`
	Category  string `json:"category"`
}

func (c *ClaudeClassifier) classifyOne(ctx context.Context, ev model.MarketEvent) (Verdict, error) {
	userMsg := fmt.Sprintf(classifyUserPrompt, ev.Name, ev.StartDate.Format("2006-01-02"), ev.Region)

	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return c.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     c.model,
			MaxTokens: 128,
			System:    classifySystemPrompt,
			Messages:  []anthropic.Message{{Role: "user", Content: userMsg}},
		})
	})
	if err != nil {
		return Verdict{}, err
	}
	resp.Usage.LogUsage(c.model, "event_classify")

	v, err := parseVerdict(resp.Text())
	if err != nil {
		return Verdict{}, err
	}
	return v, nil
}

// parseVerdict extracts the JSON verdict from model output, tolerating
// surrounding prose.
func parseVerdict(text string) (Verdict, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Verdict{}, eris.Errorf("events: no JSON in response: %s", text)
	}

	var raw verdictResponse
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return Verdict{}, eris.Wrap(err, "events: parse verdict")
	}

	category := model.EventCategory(raw.Category)
	switch category {
	case model.EventNationalHoliday, model.EventReligiousFestival, model.EventCommercialEvent:
	default:
		category = ""
	}
	return Verdict{Qualified: raw.Qualified, Category: category}, nil
}
