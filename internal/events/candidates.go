package events

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/quotewise/quote-cli/internal/model"
)

// LoadCandidates reads a candidate-event list from a YAML file with a
// top-level "events" key.
func LoadCandidates(path string) ([]model.MarketEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "events: read candidates %s", path)
	}

	var wrapper struct {
		Events []model.MarketEvent `yaml:"events"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "events: parse candidates")
	}

	return wrapper.Events, nil
}
