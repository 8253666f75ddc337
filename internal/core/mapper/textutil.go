package mapper

import (
	"sort"
	"strings"
	"unicode"
)

// capitalize lowercases the whole string and uppercases its first rune,
// the normalisation applied to titles and keywords across providers.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// uniqueSorted drops blank entries, deduplicates and sorts ascending.
// Every mapper funnels its keyword union through here so the keyword
// invariant holds regardless of provider quirks.
func uniqueSorted(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// capitalizeAll maps capitalize over a slice.
func capitalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, capitalize(item))
	}
	return out
}

// splitTrimmed splits on sep and trims each part, dropping blanks.
func splitTrimmed(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
