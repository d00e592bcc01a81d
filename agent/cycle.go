package agent

import (
	"strings"

	"github.com/cognet-ai/cognet/atomspace"
)

const (
	perceivedPrefix = "Perceived:"
	planPrefix      = "Plan:"
	rulePrefix      = "Rule:"

	// reasonPrefixLen is the number of characters stripped from a memory
	// name before concept matching. Tied to the perceivedPrefix literal;
	// change them together.
	reasonPrefixLen = 9

	// perceptionThreshold is the attention level above which an atom is
	// noticed during the perceive phase.
	perceptionThreshold = 0.7

	// goalSatisfiedThreshold is the truth value at which a goal no longer
	// needs a plan.
	goalSatisfiedThreshold = 0.8

	// maxMemories bounds the agent's memory list; memoryTrim oldest
	// entries are dropped once it is exceeded.
	maxMemories = 1000
	memoryTrim  = 100
)

// Perceive gathers high-attention atoms and records each as a Memory atom
// named "Perceived:"+name carrying the source's truth and confidence. The
// memories are appended to the agent's memory list.
func (a *Agent) Perceive() {
	if a.space == nil {
		return
	}

	a.setState(StateActive)

	noticed := a.space.Query(func(atom *atomspace.Atom) bool {
		return atom.Attention() > perceptionThreshold
	})

	for _, atom := range noticed {
		memory := a.space.CreateAtom(atomspace.TypeMemory,
			perceivedPrefix+atom.Name(), atom.TruthValue(), atom.Confidence())
		a.mu.Lock()
		a.memories = append(a.memories, memory)
		a.mu.Unlock()
	}
}

// Reason updates concept beliefs from the agent's memories. For each
// memory, concepts whose name contains the memory name stripped of its
// perception prefix take the arithmetic mean of their truth and the
// memory's truth, with confidence scaled by 1.1 (clamped at 1).
func (a *Agent) Reason() {
	if a.space == nil {
		return
	}

	for _, memory := range a.Memories() {
		remainder := memory.Name()[reasonPrefixLen:]
		related := a.space.Query(func(atom *atomspace.Atom) bool {
			return atom.Type() == atomspace.TypeConcept &&
				strings.Contains(atom.Name(), remainder)
		})

		for _, concept := range related {
			mean := (concept.TruthValue() + memory.TruthValue()) / 2
			concept.SetTruthValue(mean, concept.Confidence()*1.1)
		}
	}
}

// Plan creates a Process atom "Plan:"+goalName (truth 0.5, confidence 0.8)
// for each unmet goal and links the goal to it.
func (a *Agent) Plan() {
	if a.space == nil {
		return
	}

	for _, goal := range a.Goals() {
		if goal.TruthValue() < goalSatisfiedThreshold {
			plan := a.space.CreateAtom(atomspace.TypeProcess,
				planPrefix+goal.Name(), 0.5, 0.8)
			a.space.AddLink(goal.ID(), plan.ID())
		}
	}
}

// Act advances every plan atom graph-wide with truth above 0.4 by 0.1 and
// credits each of its incoming Goal links with 0.05 truth.
func (a *Agent) Act() {
	if a.space == nil {
		return
	}

	for _, plan := range a.space.AtomsByType(atomspace.TypeProcess) {
		if !strings.HasPrefix(plan.Name(), planPrefix) || plan.TruthValue() <= 0.4 {
			continue
		}

		plan.SetTruthValue(plan.TruthValue()+0.1, plan.Confidence())

		for _, linked := range a.space.Incoming(plan.ID()) {
			if linked.Type() == atomspace.TypeGoal {
				linked.SetTruthValue(linked.TruthValue()+0.05, linked.Confidence())
			}
		}
	}
}

// Learn strengthens frequently attended concepts by raising their
// confidence 0.01 (capped at 1, truth unchanged), then trims the agent's
// memory list if it has grown past its bound.
func (a *Agent) Learn() {
	if a.space == nil {
		return
	}

	a.setState(StateLearning)

	for _, concept := range a.space.AtomsByType(atomspace.TypeConcept) {
		if concept.Attention() > 0.5 {
			concept.SetTruthValue(concept.TruthValue(), concept.Confidence()+0.01)
		}
	}

	a.mu.Lock()
	if len(a.memories) > maxMemories {
		a.memories = append([]*atomspace.Atom(nil), a.memories[memoryTrim:]...)
	}
	a.mu.Unlock()
}

// SelfModify converts successful plans into rules: every Process atom named
// "Plan:*" with truth above 0.8 gains a Rule atom "Rule:"+planName carrying
// the plan's truth and confidence, linked from the plan.
func (a *Agent) SelfModify() {
	if a.space == nil {
		return
	}

	a.setState(StateSelfModifying)

	successful := a.space.Query(func(atom *atomspace.Atom) bool {
		return atom.Type() == atomspace.TypeProcess &&
			strings.HasPrefix(atom.Name(), planPrefix) &&
			atom.TruthValue() > 0.8
	})

	for _, plan := range successful {
		rule := a.space.CreateAtom(atomspace.TypeRule,
			rulePrefix+plan.Name(), plan.TruthValue(), plan.Confidence())
		a.space.AddLink(plan.ID(), rule.ID())

		a.logger.Debug("self-modification",
			"agent", a.name,
			"plan", plan.Name(),
			"rule", rule.Name(),
		)
	}
}
