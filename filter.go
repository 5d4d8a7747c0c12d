package ljdl

import "strings"

// FilterExcluding returns a copy of m without the excluded keys.
func FilterExcluding(m map[string]any, excluded ...string) map[string]any {
	skip := make(map[string]struct{}, len(excluded))
	for _, k := range excluded {
		skip[k] = struct{}{}
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, ok := skip[k]; ok {
			continue
		}
		out[k] = v
	}
	return out
}

// FilterByKeyPrefix returns a copy of m holding only keys that start with prefix.
func FilterByKeyPrefix(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any)
	for k, v := range m {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out
}
