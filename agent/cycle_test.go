package agent

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognet-ai/cognet/atomspace"
)

// TestPerceive tests that high-attention atoms become memories.
func TestPerceive(t *testing.T) {
	a, space := newTestAgent(t, "tester")

	noticed := space.CreateAtom(atomspace.TypeConcept, "DiskPressure", 0.8, 0.6)
	noticed.SetAttention(0.9)

	ignored := space.CreateAtom(atomspace.TypeConcept, "Background", 0.8, 0.6)
	ignored.SetAttention(0.3)

	a.Perceive()

	memory := space.FindAtom("Perceived:DiskPressure")
	require.NotNil(t, memory)
	assert.Equal(t, atomspace.TypeMemory, memory.Type())
	assert.Equal(t, 0.8, memory.TruthValue())
	assert.Equal(t, 0.6, memory.Confidence())

	assert.Nil(t, space.FindAtom("Perceived:Background"))

	// The agent's own self-concept (attention 1.0) is noticed too
	assert.NotNil(t, space.FindAtom("Perceived:Agent:tester"))

	names := make([]string, 0)
	for _, m := range a.Memories() {
		names = append(names, m.Name())
	}
	assert.Contains(t, names, "Perceived:DiskPressure")
}

// TestReason tests belief revision against perceived memories.
func TestReason(t *testing.T) {
	a, space := newTestAgent(t, "tester")

	// The matcher strips nine characters from the memory name, which
	// leaves the colon attached to the remainder. Only concept names
	// containing ":Disk" revise.
	qualified := space.CreateAtom(atomspace.TypeConcept, "Host:Disk", 0.2, 0.5)
	plain := space.CreateAtom(atomspace.TypeConcept, "Disk", 0.9, 0.5)
	plain.SetAttention(0.9)

	a.Perceive()
	require.NotNil(t, space.FindAtom("Perceived:Disk"))

	a.Reason()

	assert.InDelta(t, (0.2+0.9)/2, qualified.TruthValue(), 1e-9)
	assert.InDelta(t, 0.5*1.1, qualified.Confidence(), 1e-9)

	// The plain concept does not contain the remainder and is untouched
	assert.Equal(t, 0.9, plain.TruthValue())
	assert.Equal(t, 0.5, plain.Confidence())
}

// TestPlan tests plan creation for unmet goals.
func TestPlan(t *testing.T) {
	a, space := newTestAgent(t, "tester")

	unmet := space.CreateAtom(atomspace.TypeGoal, "Ship", 0.3, 0.9)
	met := space.CreateAtom(atomspace.TypeGoal, "Stable", 0.9, 0.9)
	a.AddGoal(unmet)
	a.AddGoal(met)

	a.Plan()

	plan := space.FindAtom("Plan:Ship")
	require.NotNil(t, plan)
	assert.Equal(t, atomspace.TypeProcess, plan.Type())
	assert.Equal(t, 0.5, plan.TruthValue())
	assert.Equal(t, 0.8, plan.Confidence())

	out := space.Outgoing(unmet.ID())
	require.Len(t, out, 1)
	assert.Same(t, plan, out[0])

	assert.Nil(t, space.FindAtom("Plan:Stable"))
}

// TestAct tests plan advancement and goal credit.
func TestAct(t *testing.T) {
	t.Run("advances plans above threshold", func(t *testing.T) {
		a, space := newTestAgent(t, "tester")

		goal := space.CreateAtom(atomspace.TypeGoal, "Ship", 0.3, 0.9)
		plan := space.CreateAtom(atomspace.TypeProcess, "Plan:Ship", 0.5, 0.8)
		require.True(t, space.AddLink(goal.ID(), plan.ID()))

		a.Act()

		assert.InDelta(t, 0.6, plan.TruthValue(), 1e-9)
		assert.InDelta(t, 0.35, goal.TruthValue(), 1e-9)
	})

	t.Run("leaves weak plans alone", func(t *testing.T) {
		a, space := newTestAgent(t, "tester")

		weak := space.CreateAtom(atomspace.TypeProcess, "Plan:Weak", 0.4, 0.8)

		a.Act()
		assert.Equal(t, 0.4, weak.TruthValue())
	})

	t.Run("ignores processes without the plan prefix", func(t *testing.T) {
		a, space := newTestAgent(t, "tester")

		other := space.CreateAtom(atomspace.TypeProcess, "Worker:Ship", 0.5, 0.8)

		a.Act()
		assert.Equal(t, 0.5, other.TruthValue())
	})
}

// TestLearn tests concept reinforcement and memory trimming.
func TestLearn(t *testing.T) {
	t.Run("reinforces attended concepts", func(t *testing.T) {
		a, space := newTestAgent(t, "tester")

		hot := space.CreateAtom(atomspace.TypeConcept, "Hot", 0.5, 0.5)
		hot.SetAttention(0.6)
		cold := space.CreateAtom(atomspace.TypeConcept, "Cold", 0.5, 0.5)
		cold.SetAttention(0.4)

		a.Learn()

		assert.InDelta(t, 0.51, hot.Confidence(), 1e-9)
		assert.Equal(t, 0.5, hot.TruthValue())
		assert.Equal(t, 0.5, cold.Confidence())
	})

	t.Run("trims the memory list past its bound", func(t *testing.T) {
		a, space := newTestAgent(t, "tester")

		for i := 0; i < maxMemories+1; i++ {
			memory := space.CreateAtom(atomspace.TypeMemory,
				fmt.Sprintf("Message:t:%d", i), 0.5, 0.5)
			a.mu.Lock()
			a.memories = append(a.memories, memory)
			a.mu.Unlock()
		}

		a.Learn()

		memories := a.Memories()
		require.Len(t, memories, maxMemories+1-memoryTrim)
		assert.Equal(t, fmt.Sprintf("Message:t:%d", memoryTrim), memories[0].Name())
	})
}

// TestSelfModify tests rule extraction from successful plans.
func TestSelfModify(t *testing.T) {
	a, space := newTestAgent(t, "tester")

	good := space.CreateAtom(atomspace.TypeProcess, "Plan:Ship", 0.9, 0.8)
	space.CreateAtom(atomspace.TypeProcess, "Plan:Weak", 0.5, 0.8)

	a.SelfModify()

	rule := space.FindAtom("Rule:Plan:Ship")
	require.NotNil(t, rule)
	assert.Equal(t, atomspace.TypeRule, rule.Type())
	assert.Equal(t, 0.9, rule.TruthValue())
	assert.Equal(t, 0.8, rule.Confidence())

	out := space.Outgoing(good.ID())
	require.Len(t, out, 1)
	assert.Same(t, rule, out[0])

	assert.Nil(t, space.FindAtom("Rule:Plan:Weak"))
}

// TestCycleRecovery tests that a panicking phase marks the agent errored
// without killing the worker.
func TestCycleRecovery(t *testing.T) {
	a, space := newTestAgent(t, "tester")

	// A memory name shorter than the stripped prefix makes Reason panic
	short := space.CreateAtom(atomspace.TypeMemory, "x", 0.5, 0.5)
	a.mu.Lock()
	a.memories = append(a.memories, short)
	a.mu.Unlock()

	a.runCycle()

	assert.Equal(t, StateError, a.State())
}

// TestPhasesWithoutSpace tests that every phase is a no-op on a detached
// agent.
func TestPhasesWithoutSpace(t *testing.T) {
	a := New("detached", nil, WithSelfModifyTrigger(func() bool { return true }))

	a.Perceive()
	a.Reason()
	a.Plan()
	a.Act()
	a.Learn()
	a.SelfModify()
	a.Deliver("System", "ignored")

	assert.Empty(t, a.Memories())
}
