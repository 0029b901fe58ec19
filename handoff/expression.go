package handoff

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/internal/util"
)

// falsyValues are the substituted strings treated as false when an expression
// has no comparison operator.
var falsyValues = map[string]bool{
	"":      true,
	"false": true,
	"0":     true,
	"no":    true,
	"none":  true,
	"nil":   true,
	"null":  true,
}

// EvaluateExpression substitutes ${...} variable references from vars and
// evaluates the result. Supported forms:
//
//	${status} == submitted     equality after substitution
//	${status} != draft         inequality after substitution
//	${approved}                truthiness of the substituted value
//
// Comparison operands are trimmed and may be single- or double-quoted.
// Unresolved variables substitute to the empty string.
func EvaluateExpression(expr string, vars core.ContextContainer) (bool, error) {
	if strings.TrimSpace(expr) == "" {
		return false, fmt.Errorf("empty expression")
	}

	substituted := util.SubstituteVars(expr, vars.Get)

	if left, right, ok := splitOperator(substituted, "!="); ok {
		return unquote(left) != unquote(right), nil
	}
	if left, right, ok := splitOperator(substituted, "=="); ok {
		return unquote(left) == unquote(right), nil
	}

	return !falsyValues[strings.ToLower(strings.TrimSpace(substituted))], nil
}

func splitOperator(s, op string) (left, right string, ok bool) {
	idx := strings.Index(s, op)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+len(op):], true
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
