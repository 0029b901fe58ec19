package handoff

import (
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/internal/util"
)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// UserAliases are the names (case-insensitive) resolved to the
	// hand-back-to-user target.
	UserAliases []string
	// TerminateAliases are the names (case-insensitive) resolved to the
	// end-conversation target.
	TerminateAliases []string
}

// Resolver normalizes raw target references into typed targets and classifies
// condition text. It is stateless after construction and safe for concurrent
// use.
type Resolver struct {
	userAliases      map[string]bool
	terminateAliases map[string]bool
}

// NewResolver constructs a Resolver with the default alias sets, optionally
// overridden via functional options.
func NewResolver(optFns ...func(o *ResolverOptions)) *Resolver {
	opts := ResolverOptions{
		UserAliases:      []string{"user", "user_proxy", "human"},
		TerminateAliases: []string{"terminate", "end", "stop", "exit"},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := &Resolver{
		userAliases:      make(map[string]bool, len(opts.UserAliases)),
		terminateAliases: make(map[string]bool, len(opts.TerminateAliases)),
	}
	for _, a := range opts.UserAliases {
		r.userAliases[strings.ToLower(strings.TrimSpace(a))] = true
	}
	for _, a := range opts.TerminateAliases {
		r.terminateAliases[strings.ToLower(strings.TrimSpace(a))] = true
	}
	return r
}

// ResolveTarget normalizes raw and resolves it against the alias sets first,
// then case-insensitively against the known agent names. The returned agent
// target preserves the known agent's canonical casing. A false return means
// the reference is unresolvable; callers record the diagnostic and drop the
// rule rather than failing the compile pass.
func (r *Resolver) ResolveTarget(raw string, known []string) (core.Target, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return core.Target{}, false
	}
	if r.userAliases[normalized] {
		return core.UserTarget(), true
	}
	if r.terminateAliases[normalized] {
		return core.TerminateTarget(), true
	}
	for _, name := range known {
		if strings.EqualFold(strings.TrimSpace(name), normalized) {
			return core.AgentTarget(name), true
		}
	}
	return core.Target{}, false
}

// ClassifyCondition resolves the effective condition type. An explicit type
// always wins. Without one, presence of a ${...} variable reference implies
// an expression condition, absence implies a natural-language condition. The
// second return reports whether inference was used; the inference default is
// heuristic and deliberately surfaced so callers can count and migrate away
// from it.
func (r *Resolver) ClassifyCondition(text string, explicit ConditionType) (ConditionType, bool) {
	if explicit != ConditionUnspecified {
		return explicit, false
	}
	if util.ContainsVarMarker(text) {
		return ConditionExpression, true
	}
	return ConditionLLM, true
}
