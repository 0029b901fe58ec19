// Package journey sequences chains of otherwise-independent agent
// conversations into a larger multi-stage user journey. A journey is a
// static, ordered list of step groups (a group with more than one template
// runs its conversations in parallel); the orchestrator consumes conversation
// completion events and decides, per event, whether the journey advances:
// enforcing the join barrier for parallel groups, minting a correlation id on
// first advance, creating or reusing the next step's conversation records
// idempotently, re-binding the live UI connection and starting the next
// conversations.
package journey
