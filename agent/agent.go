package agent

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cognet-ai/cognet/atomspace"
)

// State describes an agent's lifecycle state.
type State uint32

const (
	// StateInactive means the agent is not running a cycle. This is the
	// initial state and the state after Stop or Pause.
	StateInactive State = iota

	// StateActive means the agent is running its cycle.
	StateActive

	// StateLearning means the agent is in its learning phase.
	StateLearning

	// StatePlanning is defined for completeness; the cycle never sets it.
	StatePlanning

	// StateExecuting is defined for completeness; the cycle never sets it.
	StateExecuting

	// StateSelfModifying means the agent is rewriting the graph based on
	// its own prior state.
	StateSelfModifying

	// StateError means the last cycle failed. The worker keeps looping.
	StateError
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "Inactive"
	case StateActive:
		return "Active"
	case StateLearning:
		return "Learning"
	case StatePlanning:
		return "Planning"
	case StateExecuting:
		return "Executing"
	case StateSelfModifying:
		return "Self-Modifying"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// cycleInterval is the end-of-cycle wait. Lifecycle calls interrupt it so
// they are observed before the next full cycle boundary.
const cycleInterval = 100 * time.Millisecond

// selfModifyProbability is the chance per cycle that the self-modification
// phase runs.
const selfModifyProbability = 0.01

// Agent is an autonomous worker bound to one Space. See the package
// documentation for the cycle it runs.
//
// All methods are safe for concurrent use. An agent only ever takes its own
// lock, so no sequence of agent calls can deadlock across agents.
type Agent struct {
	name   string
	space  *atomspace.Space
	logger *slog.Logger
	tracer trace.Tracer

	// selfModify reports whether this cycle's self-modification branch
	// should run. Injected so tests can force or forbid it.
	selfModify func() bool

	mu       sync.Mutex
	state    State
	stopping bool
	paused   bool
	goals    []*atomspace.Atom
	memories []*atomspace.Atom

	// wake nudges the worker out of its end-of-cycle wait.
	wake chan struct{}
	// done is closed when the worker goroutine exits.
	done chan struct{}
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the agent's logger. If not provided, logging is
// discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer spanning each cognitive cycle.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Agent) {
		a.tracer = tracer
	}
}

// WithSelfModifyTrigger replaces the per-cycle random draw that decides
// whether the self-modification phase runs. Tests use this to force or
// forbid the branch deterministically.
func WithSelfModifyTrigger(trigger func() bool) Option {
	return func(a *Agent) {
		a.selfModify = trigger
	}
}

// WithRand sets the random source backing the default self-modification
// draw. Ignored if WithSelfModifyTrigger is also given.
func WithRand(rng *rand.Rand) Option {
	return func(a *Agent) {
		a.selfModify = func() bool {
			return rng.Float64() < selfModifyProbability
		}
	}
}

// New creates an agent bound to the given Space and registers the agent's
// self-concept atom ("Agent:"+name, attention 1.0) in it. The agent starts
// in StateInactive; call Start to spawn its worker.
func New(name string, space *atomspace.Space, opts ...Option) *Agent {
	a := &Agent{
		name:  name,
		space: space,
		wake:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	if a.tracer == nil {
		a.tracer = noop.NewTracerProvider().Tracer("")
	}
	if a.selfModify == nil {
		a.selfModify = func() bool {
			return rand.Float64() < selfModifyProbability
		}
	}

	if a.space != nil {
		self := a.space.CreateAtom(atomspace.TypeAgent, "Agent:"+name, 1.0, 1.0)
		self.SetAttention(1.0)
	}

	return a
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// State returns the agent's current lifecycle state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Start spawns the agent's background worker. It is a no-op if the agent is
// already in any state other than StateInactive.
func (a *Agent) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateInactive {
		return
	}

	a.stopping = false
	a.paused = false
	a.state = StateActive
	a.done = make(chan struct{})

	go a.run(a.done)

	a.logger.Info("agent started", slog.String("agent", a.name))
}

// Stop signals the worker to exit and blocks until it has. A cycle already
// in progress runs to completion, so Stop has bounded but non-zero latency.
// Stop is idempotent and safe to call on a never-started agent.
func (a *Agent) Stop() {
	a.mu.Lock()
	a.stopping = true
	a.paused = false
	a.state = StateInactive
	done := a.done
	a.mu.Unlock()

	a.signalWake()

	if done != nil {
		<-done
	}

	a.mu.Lock()
	a.done = nil
	a.mu.Unlock()

	a.logger.Info("agent stopped", slog.String("agent", a.name))
}

// Pause moves an active agent to StateInactive without joining its worker;
// the cycle idles until Resume or Stop.
func (a *Agent) Pause() {
	a.mu.Lock()
	if a.state == StateActive {
		a.state = StateInactive
		a.paused = true
	}
	a.mu.Unlock()
	a.signalWake()
}

// Resume reactivates a paused agent. It is a no-op unless the agent is in
// StateInactive and not stopping.
func (a *Agent) Resume() {
	a.mu.Lock()
	if a.state == StateInactive && !a.stopping {
		a.state = StateActive
		a.paused = false
	}
	a.mu.Unlock()
	a.signalWake()
}

// AddGoal appends a goal atom to the agent's private goal list. Atoms of
// any other type are ignored.
func (a *Agent) AddGoal(goal *atomspace.Atom) {
	if goal == nil || goal.Type() != atomspace.TypeGoal {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.goals = append(a.goals, goal)
}

// RemoveGoal deletes the goal with the given atom id from the goal list.
func (a *Agent) RemoveGoal(id uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.goals[:0]
	for _, goal := range a.goals {
		if goal.ID() != id {
			kept = append(kept, goal)
		}
	}
	a.goals = kept
}

// Goals returns a snapshot of the agent's goal list.
func (a *Agent) Goals() []*atomspace.Atom {
	a.mu.Lock()
	defer a.mu.Unlock()
	goals := make([]*atomspace.Atom, len(a.goals))
	copy(goals, a.goals)
	return goals
}

// Memories returns a snapshot of the agent's memory list.
func (a *Agent) Memories() []*atomspace.Atom {
	a.mu.Lock()
	defer a.mu.Unlock()
	memories := make([]*atomspace.Atom, len(a.memories))
	copy(memories, a.memories)
	return memories
}

// Deliver records an inbound message from another party as a Memory atom
// named "Message:"+from+":"+text and appends it to the agent's memory list.
func (a *Agent) Deliver(from, text string) {
	if a.space == nil {
		return
	}
	memory := a.space.CreateAtom(atomspace.TypeMemory, "Message:"+from+":"+text, 1.0, 0.9)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memories = append(a.memories, memory)
}

func (a *Agent) signalWake() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// run is the worker loop. It exits only when Stop is called; a paused agent
// idles here, and an agent in StateError keeps cycling.
func (a *Agent) run(done chan struct{}) {
	defer close(done)

	for {
		a.mu.Lock()
		if a.stopping {
			a.mu.Unlock()
			return
		}
		paused := a.paused
		a.mu.Unlock()

		if !paused {
			a.runCycle()
		}

		a.wait()
	}
}

// wait blocks until the cycle interval elapses or a lifecycle call signals
// the worker.
func (a *Agent) wait() {
	timer := time.NewTimer(cycleInterval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-a.wake:
	}
}

// runCycle executes the six cognitive phases once. Any panic is converted
// to StateError; effects already committed by earlier phases persist.
func (a *Agent) runCycle() {
	_, span := a.tracer.Start(context.Background(), "agent.cycle")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			a.setState(StateError)
			a.logger.Error("cognitive cycle failed",
				slog.String("agent", a.name),
				slog.Any("panic", r),
			)
		}
	}()

	a.Perceive()
	a.Reason()
	a.Plan()
	a.Act()
	a.Learn()

	if a.selfModify() {
		a.SelfModify()
	}
}

// setState records a phase or error state. Skipped once the agent is
// pausing or stopping so a cycle finishing out does not undo the lifecycle
// transition.
func (a *Agent) setState(state State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.paused || a.stopping {
		return
	}
	a.state = state
}
