package handoff

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/logging"
)

// Summary reports what one compile pass did. It exists for diagnostics and
// operator visibility only; callers must never branch on it for control flow.
type Summary struct {
	TotalRules         int
	LLMApplied         int
	PreReplyApplied    int
	AfterReplyApplied  int
	FallbacksApplied   int
	InferredConditions int // condition rules that relied on the ${...} inference heuristic
	DroppedRules       int
	UnresolvedSources  []string
	UnresolvedTargets  []string
	AgentsWithoutRules []string
	Errors             []string
}

// CompilerOptions configures a Compiler.
type CompilerOptions struct {
	// Resolver handles target and condition resolution. Defaults to a
	// resolver with the standard alias sets.
	Resolver *Resolver
	// Logger receives compile diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Compiler turns a conversation template's declared rule list into per-agent
// routing tables. Compilation never aborts on a malformed rule: unresolved
// sources or targets and empty conditions are skipped and counted so that one
// bad declaration cannot take down the wiring pass for the other agents.
type Compiler struct {
	resolver *Resolver
	logger   logging.Logger
}

// NewCompiler constructs a Compiler with optional overrides.
func NewCompiler(optFns ...func(o *CompilerOptions)) *Compiler {
	opts := CompilerOptions{
		Resolver: NewResolver(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Compiler{resolver: opts.Resolver, logger: opts.Logger}
}

// tableDraft accumulates one agent's transitions during a compile pass before
// the atomic final assembly.
type tableDraft struct {
	llm       []Transition
	preReply  []Transition
	postReply []Transition
	fallback  *core.Target // last after-work rule wins
}

// Compile groups rules by source agent (declaration order preserved within a
// group) and produces one routing table per agent that yielded at least one
// usable transition. agents is the set of live agent names for this
// conversation instance; rules whose source is not in it are dropped with a
// diagnostic.
func (c *Compiler) Compile(rules []Rule, agents []string) (map[string]*RoutingTable, *Summary) {
	summary := &Summary{TotalRules: len(rules)}

	known := make(map[string]string, len(agents)) // lowercased -> canonical
	for _, a := range agents {
		known[strings.ToLower(strings.TrimSpace(a))] = a
	}

	drafts := make(map[string]*tableDraft)
	var order []string // canonical source agents in first-appearance order
	unresolvedSources := map[string]bool{}
	unresolvedTargets := map[string]bool{}

	for _, rule := range rules {
		canonical, ok := known[strings.ToLower(strings.TrimSpace(rule.SourceAgent))]
		if !ok {
			if !unresolvedSources[rule.SourceAgent] {
				unresolvedSources[rule.SourceAgent] = true
				summary.UnresolvedSources = append(summary.UnresolvedSources, rule.SourceAgent)
			}
			summary.DroppedRules++
			c.logger.Debug("handoff rule dropped: unknown source agent", "source", rule.SourceAgent)
			continue
		}

		// Condition rules with no condition text are dropped before
		// compilation.
		if rule.Type == HandoffCondition && strings.TrimSpace(rule.Condition) == "" {
			summary.DroppedRules++
			c.logger.Debug("handoff rule dropped: empty condition", "source", canonical)
			continue
		}

		draft, exists := drafts[canonical]
		if !exists {
			draft = &tableDraft{}
			drafts[canonical] = draft
			order = append(order, canonical)
		}

		target, ok := c.resolver.ResolveTarget(rule.TargetAgent, agents)
		if !ok {
			if !unresolvedTargets[rule.TargetAgent] {
				unresolvedTargets[rule.TargetAgent] = true
				summary.UnresolvedTargets = append(summary.UnresolvedTargets, rule.TargetAgent)
			}
			summary.DroppedRules++
			summary.Errors = append(summary.Errors, fmt.Sprintf("agent %s: unresolvable target %q", canonical, rule.TargetAgent))
			continue
		}

		switch rule.Type {
		case HandoffAfterWork:
			// Explicit last-write-wins: a later after-work rule overwrites
			// any earlier one for the same agent.
			t := target
			draft.fallback = &t

		case HandoffCondition:
			condType, inferred := c.resolver.ClassifyCondition(rule.Condition, rule.ConditionType)
			if inferred {
				summary.InferredConditions++
			}
			tr := Transition{Target: target, Condition: rule.Condition}
			switch condType {
			case ConditionLLM:
				draft.llm = append(draft.llm, tr)
				summary.LLMApplied++
			case ConditionExpression:
				if rule.Scope == ScopePreReply {
					draft.preReply = append(draft.preReply, tr)
					summary.PreReplyApplied++
				} else {
					draft.postReply = append(draft.postReply, tr)
					summary.AfterReplyApplied++
				}
			}
		}
	}

	// Assemble each agent's table in one step so a host never observes a
	// partially populated table.
	tables := make(map[string]*RoutingTable, len(drafts))
	for _, agent := range order {
		draft := drafts[agent]
		table := &RoutingTable{
			LLMConditions: draft.llm,
			PreReply:      draft.preReply,
			AfterReply:    draft.postReply,
		}
		if draft.fallback != nil {
			table.AfterReply = append(table.AfterReply, Transition{Target: *draft.fallback})
			summary.FallbacksApplied++
		}
		if table.Empty() {
			continue
		}
		tables[agent] = table
	}

	for _, a := range agents {
		if _, ok := tables[a]; !ok {
			summary.AgentsWithoutRules = append(summary.AgentsWithoutRules, a)
		}
	}

	c.logger.Info("handoff compile finished",
		"total", summary.TotalRules,
		"llm", summary.LLMApplied,
		"pre_reply", summary.PreReplyApplied,
		"after_reply", summary.AfterReplyApplied,
		"fallbacks", summary.FallbacksApplied,
		"dropped", summary.DroppedRules,
	)

	return tables, summary
}

// Wire compiles rules against the hosts' names and applies each resulting
// table to its host in a single SetRoutingTable call. Hosts without a
// compiled table are left untouched.
func (c *Compiler) Wire(rules []Rule, hosts []TableHost) *Summary {
	agents := make([]string, len(hosts))
	byName := make(map[string]TableHost, len(hosts))
	for i, h := range hosts {
		agents[i] = h.Name()
		byName[h.Name()] = h
	}

	tables, summary := c.Compile(rules, agents)
	for name, table := range tables {
		byName[name].SetRoutingTable(table)
	}
	return summary
}
