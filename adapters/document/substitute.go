// Package document implements receipt renderers for the supported formats.
package document

import (
	"sort"
	"strings"
)

// sortedMarkers returns markers longest first, so a marker that contains
// another is replaced before it.
func sortedMarkers(repl map[string]string) []string {
	markers := make([]string, 0, len(repl))
	for m := range repl {
		if m != "" {
			markers = append(markers, m)
		}
	}
	sort.Slice(markers, func(i, j int) bool {
		if len(markers[i]) != len(markers[j]) {
			return len(markers[i]) > len(markers[j])
		}
		return markers[i] < markers[j]
	})
	return markers
}

// substitute replaces every marker in s. escape is applied to values.
func substitute(s string, repl map[string]string, escape func(string) string) string {
	markers := sortedMarkers(repl)
	if len(markers) == 0 {
		return s
	}

	pairs := make([]string, 0, len(markers)*2)
	for _, m := range markers {
		v := repl[m]
		if escape != nil {
			m, v = escape(m), escape(v)
		}
		pairs = append(pairs, m, v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
