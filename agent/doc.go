// Package agent implements the autonomous cognitive agent that reads and
// mutates an atomspace on a fixed cycle.
//
// An agent is bound to exactly one Space for its lifetime and owns a
// private goal list and memory list of references into that Space. Once
// started, a background worker repeatedly runs the six-phase cognitive
// cycle (Perceive, Reason, Plan, Act, Learn, and, with a small random
// probability per cycle, SelfModify) and then waits up to the cycle
// interval for a lifecycle signal before looping again.
//
// A panic in any phase is recovered at the cycle boundary: the agent moves
// to StateError and the worker keeps looping. Stop is the only call that
// joins the worker; Pause leaves it running but idle.
package agent
