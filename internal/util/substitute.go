package util

import (
	"fmt"
	"regexp"
	"strings"
)

// varPattern matches ${name} style variable references. Names may be dotted
// to address nested values exposed by a container.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_.]*)\}`)

// ContainsVarMarker reports whether text references at least one ${...}
// variable. This lives in internal to avoid committing to public API
// stability prematurely.
func ContainsVarMarker(text string) bool {
	if !strings.Contains(text, "${") { // fast path: no marker at all
		return false
	}
	return varPattern.MatchString(text)
}

// SubstituteVars replaces every ${name} reference in text using the lookup
// function. Unresolved references are replaced with the empty string so a
// downstream comparison against a missing variable evaluates predictably.
func SubstituteVars(text string, lookup func(name string) (any, bool)) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return varPattern.ReplaceAllStringFunc(text, func(ref string) string {
		name := varPattern.FindStringSubmatch(ref)[1]
		v, ok := lookup(name)
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	})
}

// VarNames returns the distinct variable names referenced by text, in first
// occurrence order.
func VarNames(text string) []string {
	if !strings.Contains(text, "${") {
		return nil
	}
	seen := map[string]bool{}
	var names []string
	for _, m := range varPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
