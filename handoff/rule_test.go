package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHandoffType(t *testing.T) {
	for _, raw := range []string{"after_work", "AfterWork", " after "} {
		got, ok := ParseHandoffType(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, HandoffAfterWork, got, raw)
	}
	for _, raw := range []string{"condition", "Conditional"} {
		got, ok := ParseHandoffType(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, HandoffCondition, got, raw)
	}
	_, ok := ParseHandoffType("teleport")
	assert.False(t, ok)
}

func TestParseConditionType(t *testing.T) {
	assert.Equal(t, ConditionLLM, ParseConditionType("llm"))
	assert.Equal(t, ConditionLLM, ParseConditionType("string_llm"))
	assert.Equal(t, ConditionExpression, ParseConditionType("Expression"))
	assert.Equal(t, ConditionExpression, ParseConditionType("context"))
	assert.Equal(t, ConditionUnspecified, ParseConditionType(""))
	assert.Equal(t, ConditionUnspecified, ParseConditionType("nonsense"))
}

func TestParseConditionScope(t *testing.T) {
	assert.Equal(t, ScopePreReply, ParseConditionScope("pre_reply"))
	assert.Equal(t, ScopePreReply, ParseConditionScope("IMMEDIATE"))
	assert.Equal(t, ScopeAfterReply, ParseConditionScope(""))
	assert.Equal(t, ScopeAfterReply, ParseConditionScope("after_reply"))
}
