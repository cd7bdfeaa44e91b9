package exportimport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pressforge/core/internal/pages"
	"github.com/pressforge/core/internal/storage"
)

// FormatVersion is the envelope version stamped on exports.
const FormatVersion = "1.0.0"

// Envelope is the versioned settings interchange format.
type Envelope struct {
	Version  string                    `json:"version"`
	Exported string                    `json:"exported"`
	SiteURL  string                    `json:"site_url"`
	Settings map[string]map[string]any `json:"settings"`
}

// Export serializes every page's stored values merged over its declared
// defaults; a stored value always wins over a default.
func Export(ctx context.Context, store *storage.Store, pageList []*pages.OptionsPage, siteURL string) Envelope {
	settings := make(map[string]map[string]any, len(pageList))
	for _, p := range pageList {
		merged := map[string]any{}
		for k, v := range p.Defaults() {
			merged[k] = v
		}
		for k, v := range p.Values(ctx, store) {
			merged[k] = v
		}
		settings[p.OptionKey] = merged
	}
	return Envelope{
		Version:  FormatVersion,
		Exported: time.Now().UTC().Format(time.RFC3339),
		SiteURL:  siteURL,
		Settings: settings,
	}
}

// ImportResult reports what an import did.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported []string `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// Import restores settings from a serialized envelope. Structural problems
// abort before any write. Entries outside the whitelist are skipped with an
// error but do not stop other entries. Values are written wholesale: the
// envelope is trusted as already-sanitized, no field-level sanitization runs.
func Import(ctx context.Context, store *storage.Store, raw []byte, allowedOptionKeys []string) ImportResult {
	env, errs := parseEnvelope(raw)
	if len(errs) > 0 {
		return ImportResult{Success: false, Errors: errs}
	}

	allowed := map[string]struct{}{}
	for _, key := range allowedOptionKeys {
		allowed[key] = struct{}{}
	}

	res := ImportResult{}
	for key, value := range env.Settings {
		if allowedOptionKeys != nil {
			if _, ok := allowed[key]; !ok {
				res.Errors = append(res.Errors, fmt.Sprintf("option %q is not allowed", key))
				continue
			}
		}
		if !store.UpdateOption(ctx, key, value) {
			res.Errors = append(res.Errors, fmt.Sprintf("failed to write option %q", key))
			continue
		}
		res.Imported = append(res.Imported, key)
	}
	res.Success = len(res.Errors) == 0
	return res
}

// ValidationResult is the outcome of a structural check.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Options []string          `json:"options"`
	Meta    map[string]string `json:"meta"`
	Errors  []string          `json:"errors,omitempty"`
}

// Validate structurally checks an envelope without touching storage.
func Validate(raw []byte) ValidationResult {
	env, errs := parseEnvelope(raw)
	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	options := make([]string, 0, len(env.Settings))
	for key := range env.Settings {
		options = append(options, key)
	}
	return ValidationResult{
		Valid:   true,
		Options: options,
		Meta: map[string]string{
			"version":  env.Version,
			"exported": env.Exported,
			"site_url": env.SiteURL,
		},
	}
}

func parseEnvelope(raw []byte) (Envelope, []string) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Envelope{}, []string{"payload is not a JSON object"}
	}
	if _, ok := probe["settings"]; !ok {
		return Envelope{}, []string{"payload is missing the settings key"}
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, []string{"settings must map option keys to objects"}
	}
	if env.Settings == nil {
		return Envelope{}, []string{"settings must be an object"}
	}
	return env, nil
}
