// Package state derives shared context variables from agent output and UI
// interaction. Variable specs declare a default value and an ordered trigger
// list; the engine reacts to two event types (an agent emitting text, a UI
// tool returning a value) and writes through to every registered context
// container so handoff expression conditions observe consistent state.
package state
