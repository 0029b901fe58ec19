package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsVarMarker(t *testing.T) {
	assert.True(t, ContainsVarMarker("${status} == done"))
	assert.True(t, ContainsVarMarker("prefix ${a.b.c} suffix"))
	assert.False(t, ContainsVarMarker("no markers here"))
	assert.False(t, ContainsVarMarker("${} empty name"))
	assert.False(t, ContainsVarMarker("${1bad} leading digit"))
}

func TestSubstituteVars(t *testing.T) {
	lookup := func(name string) (any, bool) {
		switch name {
		case "status":
			return "submitted", true
		case "count":
			return 3, true
		case "nothing":
			return nil, true
		default:
			return nil, false
		}
	}

	assert.Equal(t, "submitted", SubstituteVars("${status}", lookup))
	assert.Equal(t, "3 of 3", SubstituteVars("${count} of ${count}", lookup))
	// Unresolved and nil both substitute to the empty string.
	assert.Equal(t, "[] []", SubstituteVars("[${missing}] [${nothing}]", lookup))
	assert.Equal(t, "plain text", SubstituteVars("plain text", lookup))
}

func TestVarNames(t *testing.T) {
	names := VarNames("${a} and ${b.c} and ${a} again")
	assert.Equal(t, []string{"a", "b.c"}, names)
	assert.Nil(t, VarNames("nothing"))
}
