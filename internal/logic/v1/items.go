package v1

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/givehope/donation-service/internal/core/domain"
)

// NormalizeAcceptedItems accepts an NGO's catalog as a native array of
// strings, a JSON-encoded array string, or a comma-separated string, and
// normalizes it to trimmed, de-duplicated item names in submission order.
// An empty result is invalid.
func NormalizeAcceptedItems(input any) ([]string, error) {
	var raw []string
	switch v := input.(type) {
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			raw = append(raw, fmt.Sprint(item))
		}
	case string:
		if strings.Contains(v, "[") {
			var parsed []string
			if err := json.Unmarshal([]byte(v), &parsed); err == nil {
				raw = parsed
			} else {
				raw = strings.Split(v, ",")
			}
		} else {
			raw = strings.Split(v, ",")
		}
	default:
		return nil, fmt.Errorf("acceptedItems must be an array of strings: %w", domain.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(raw))
	items := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		items = append(items, s)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("acceptedItems cannot be empty: %w", domain.ErrInvalidInput)
	}
	return items, nil
}
