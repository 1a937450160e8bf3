package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SharedAccessItem is a permission record allowing one user/device to act
// on behalf of another within a bounded detail scope. Pure value object;
// it round-trips losslessly through JSON.
type SharedAccessItem struct {
	User    string         `json:"user,omitempty"`
	Device  string         `json:"device,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (i SharedAccessItem) Map() map[string]any {
	out := map[string]any{}
	if strings.TrimSpace(i.User) != "" {
		out["user"] = strings.TrimSpace(i.User)
	}
	if strings.TrimSpace(i.Device) != "" {
		out["device"] = strings.TrimSpace(i.Device)
	}
	if len(i.Details) > 0 {
		out["details"] = copyAnyMap(i.Details)
	}
	return out
}

func SharedAccessItemFromMap(value map[string]any) SharedAccessItem {
	item := SharedAccessItem{
		User:   readMapString(value, "user"),
		Device: readMapString(value, "device"),
	}
	if details, ok := value["details"].(map[string]any); ok && len(details) > 0 {
		item.Details = copyAnyMap(details)
	}
	return item
}

// ParseSharedAccess converts the generic document shape a backend reports
// (category -> list of grant objects) into typed grant records. Entries
// that are not objects are dropped; a malformed category list is an error
// so a corrupted grant set is never silently accepted.
func ParseSharedAccess(value any) (map[string][]SharedAccessItem, error) {
	if value == nil {
		return map[string][]SharedAccessItem{}, nil
	}
	categories, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("core: shared access must be an object, got %T", value)
	}
	out := make(map[string][]SharedAccessItem, len(categories))
	for category, raw := range categories {
		name := strings.TrimSpace(category)
		if name == "" {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("core: shared access category %q must be a list, got %T", name, raw)
		}
		items := make([]SharedAccessItem, 0, len(list))
		for _, entry := range list {
			object, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			items = append(items, SharedAccessItemFromMap(object))
		}
		out[name] = items
	}
	return out, nil
}

// SharedAccessToDocument is the inverse of ParseSharedAccess.
func SharedAccessToDocument(grants map[string][]SharedAccessItem) map[string]any {
	out := make(map[string]any, len(grants))
	for category, items := range grants {
		list := make([]any, 0, len(items))
		for _, item := range items {
			list = append(list, item.Map())
		}
		out[category] = list
	}
	return out
}

func copyAnyMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func readMapString(value map[string]any, key string) string {
	switch typed := value[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case fmt.Stringer:
		return strings.TrimSpace(typed.String())
	default:
		return ""
	}
}
