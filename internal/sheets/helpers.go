package sheets

import (
	"fmt"
	"strings"
)

func trim(s string) string { return strings.TrimSpace(s) }

func equalFold(a, b string) bool { return strings.EqualFold(trim(a), trim(b)) }

func isBlank(row []any) bool {
	for _, v := range row {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && trim(s) == "" {
			continue
		}
		return false
	}
	return true
}

// ToStrings converts a row of cell values to trimmed strings.
func ToStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
