package params

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-assist-auth/core"
)

// BodyParameters reads from an already-parsed structured request body.
// Values may arrive structured or as embedded JSON strings; both forms are
// accepted so clients that double-encode keep working.
type BodyParameters struct {
	body map[string]any
}

func NewBodyParameters(body map[string]any) *BodyParameters {
	if body == nil {
		body = map[string]any{}
	}
	return &BodyParameters{body: body}
}

func (p *BodyParameters) GetString(key string) string {
	if p == nil {
		return ""
	}
	switch typed := p.body[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case float64:
		return strings.TrimSpace(fmt.Sprint(typed))
	case bool:
		return fmt.Sprint(typed)
	default:
		return ""
	}
}

func (p *BodyParameters) GetStringArray(key string) []string {
	if p == nil {
		return nil
	}
	raw, ok := p.body[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		text, ok := value.(string)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func (p *BodyParameters) GetJSON(key string) (map[string]any, error) {
	if p == nil {
		return nil, nil
	}
	value, ok := p.body[key]
	if !ok || value == nil {
		return nil, nil
	}
	switch typed := value.(type) {
	case map[string]any:
		return typed, nil
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(typed), &parsed); err != nil {
			return nil, fmt.Errorf("params: parameter %q is not a valid object: %w", key, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("params: parameter %q is not an object, got %T", key, value)
	}
}

func (p *BodyParameters) GetJSONArray(key string) ([]any, error) {
	if p == nil {
		return nil, nil
	}
	value, ok := p.body[key]
	if !ok || value == nil {
		return nil, nil
	}
	switch typed := value.(type) {
	case []any:
		return typed, nil
	case string:
		var parsed []any
		if err := json.Unmarshal([]byte(typed), &parsed); err != nil {
			return nil, fmt.Errorf("params: parameter %q is not a valid array: %w", key, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("params: parameter %q is not an array, got %T", key, value)
	}
}

func (p *BodyParameters) GetObject(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	value, ok := p.body[key]
	return value, ok
}

// GetBoolOrDefault distinguishes an absent key, which yields the fallback,
// from a present value of the wrong type, which is a type error.
func (p *BodyParameters) GetBoolOrDefault(key string, fallback bool) (bool, error) {
	if p == nil {
		return fallback, nil
	}
	value, ok := p.body[key]
	if !ok {
		return fallback, nil
	}
	parsed, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("params: parameter %q is not a boolean, got %T", key, value)
	}
	return parsed, nil
}

var _ core.RequestParameters = (*BodyParameters)(nil)
