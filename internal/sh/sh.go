// Package sh renders command lines the way a POSIX shell would read them.
package sh

import (
	"maps"
	"regexp"
	"slices"
	"strings"
)

var unsafe = regexp.MustCompile(`[^\w@%+=:,./-]`)

// Quote quotes s for use as a single shell word.
func Quote(s string) string {
	if s == "" {
		return `''`
	}
	if !unsafe.MatchString(s) {
		return s
	}
	return `'` + strings.ReplaceAll(s, `'`, `'\''`) + `'`
}

// Join quotes each argument and joins them with spaces.
func Join(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}

// String renders a command line prefixed by its environment assignments,
// sorted by name.
func String(env map[string]string, args ...string) string {
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(env)) {
		sb.WriteString(k + "=" + Quote(env[k]) + " ")
	}
	sb.WriteString(Join(args))
	return sb.String()
}
