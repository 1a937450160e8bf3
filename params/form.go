package params

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-assist-auth/core"
)

// FormParameters reads from a flat string key-value store (query string or
// form body). Values are always strings at rest; structured values are
// parsed lazily from their string form on access. A malformed embedded
// document is an error, never a silent nil, so a corrupted field can not
// slip into an authentication attempt.
type FormParameters struct {
	values url.Values
}

func NewFormParameters(values url.Values) *FormParameters {
	if values == nil {
		values = url.Values{}
	}
	return &FormParameters{values: values}
}

func (p *FormParameters) GetString(key string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.values.Get(key))
}

func (p *FormParameters) GetStringArray(key string) []string {
	if p == nil {
		return nil
	}
	raw := p.values[key]
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func (p *FormParameters) GetJSON(key string) (map[string]any, error) {
	raw := p.GetString(key)
	if raw == "" {
		return nil, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("params: parameter %q is not a valid object: %w", key, err)
	}
	return parsed, nil
}

func (p *FormParameters) GetJSONArray(key string) ([]any, error) {
	raw := p.GetString(key)
	if raw == "" {
		return nil, nil
	}
	var parsed []any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("params: parameter %q is not a valid array: %w", key, err)
	}
	return parsed, nil
}

func (p *FormParameters) GetObject(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	if _, ok := p.values[key]; !ok {
		return nil, false
	}
	return p.values.Get(key), true
}

func (p *FormParameters) GetBoolOrDefault(key string, fallback bool) (bool, error) {
	raw := p.GetString(key)
	if raw == "" {
		if p == nil || !p.has(key) {
			return fallback, nil
		}
		return false, fmt.Errorf("params: parameter %q is empty, expected a boolean", key)
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("params: parameter %q is not a boolean: %w", key, err)
	}
	return parsed, nil
}

func (p *FormParameters) has(key string) bool {
	_, ok := p.values[key]
	return ok
}

var _ core.RequestParameters = (*FormParameters)(nil)
