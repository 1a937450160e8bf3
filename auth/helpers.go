package auth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func readString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		value, ok := payload[key]
		if !ok || value == nil {
			continue
		}
		switch typed := value.(type) {
		case string:
			trimmed := strings.TrimSpace(typed)
			if trimmed != "" {
				return trimmed
			}
		case json.Number:
			trimmed := strings.TrimSpace(typed.String())
			if trimmed != "" {
				return trimmed
			}
		case fmt.Stringer:
			trimmed := strings.TrimSpace(typed.String())
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// readInt tolerates the numeric shapes a generic JSON document can carry;
// anything unparsable yields the fallback.
func readInt(value any, fallback int) int {
	switch typed := value.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return fallback
		}
		return int(parsed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

func cloneInfo(info map[string]any) map[string]any {
	if len(info) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(info))
	for key, value := range info {
		out[key] = value
	}
	return out
}
