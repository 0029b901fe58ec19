package core

import "strings"

// completionSynonyms is the closed set of strings recognized as a completed
// status, compared case-insensitively after trimming.
var completionSynonyms = map[string]bool{
	"completed": true,
	"complete":  true,
	"success":   true,
	"succeeded": true,
	"done":      true,
	"finished":  true,
	"ok":        true,
	"true":      true,
	"1":         true,
}

// IsCompletedStatus reports whether a status value from a completion event or
// conversation record counts as completed. Recognized forms: absent/nil,
// boolean true, numeric 1, and a closed set of completion synonym strings.
// Anything else is treated as not-completed.
func IsCompletedStatus(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case bool:
		return s
	case string:
		return completionSynonyms[strings.ToLower(strings.TrimSpace(s))]
	case int:
		return s == 1
	case int64:
		return s == 1
	case float64:
		// JSON numbers decode as float64.
		return s == 1
	default:
		return false
	}
}
