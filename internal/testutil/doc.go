// Package testutil provides fluent builders for constructing handoff rules
// and conversation records in tests.
package testutil
