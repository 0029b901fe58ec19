package testutil

import (
	"github.com/hupe1980/agentrelay/handoff"
)

// RuleBuilder helps construct handoff rules with fluent chaining for tests.
// Example:
//
//	rule := NewRuleBuilder("triage", "billing").Condition("${topic} == billing").Build()
type RuleBuilder struct {
	rule handoff.Rule
}

// NewRuleBuilder creates a builder for a rule from source to target. The rule
// defaults to after-work; use Condition to turn it into a conditional rule.
func NewRuleBuilder(source, target string) *RuleBuilder {
	return &RuleBuilder{rule: handoff.Rule{
		SourceAgent: source,
		TargetAgent: target,
		Type:        handoff.HandoffAfterWork,
	}}
}

// Condition marks the rule conditional with the given condition text
// (chainable).
func (b *RuleBuilder) Condition(text string) *RuleBuilder {
	b.rule.Type = handoff.HandoffCondition
	b.rule.Condition = text
	return b
}

// ConditionType sets the explicit condition type (chainable).
func (b *RuleBuilder) ConditionType(t handoff.ConditionType) *RuleBuilder {
	b.rule.ConditionType = t
	return b
}

// PreReply scopes the rule to pre-reply evaluation (chainable).
func (b *RuleBuilder) PreReply() *RuleBuilder {
	b.rule.Scope = handoff.ScopePreReply
	return b
}

// Build returns the assembled rule.
func (b *RuleBuilder) Build() handoff.Rule {
	return b.rule
}
