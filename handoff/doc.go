// Package handoff compiles declarative transition rules into per-agent
// routing tables and resolves textual target references into typed targets.
//
// A rule either names an unconditional fallback ("after work") destination or
// attaches a condition. Conditions are classified as natural-language prompts
// (evaluated by the external conversation runtime) or structured expressions
// over derived context variables (evaluated here, before or after the agent's
// reply depending on scope). Compilation is diagnostic-driven: malformed or
// unresolvable rules are skipped and counted, never fatal.
package handoff
