// Package core defines the shared leaf types of AgentRelay: handoff targets,
// conversation records and their journey linkage, context containers, live
// connection abstractions and completion status recognition. Higher level
// packages (handoff, state, journey) depend on core; core depends on nothing
// but the standard library.
package core
