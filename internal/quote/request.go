package quote

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/quotewise/quote-cli/internal/model"
)

// LoadRequest reads a quote request from a YAML or JSON file, chosen by
// extension (.json is JSON, anything else is YAML).
func LoadRequest(path string) (*model.QuoteRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "quote: read request %s", path)
	}

	var req model.QuoteRequest
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, eris.Wrapf(err, "quote: parse request %s", path)
		}
	} else {
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, eris.Wrapf(err, "quote: parse request %s", path)
		}
	}

	if err := req.Validate(); err != nil {
		return nil, eris.Wrapf(err, "quote: invalid request %s", path)
	}
	return &req, nil
}
