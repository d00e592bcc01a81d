// Package integration bridges host process and event sources into the
// cognitive runtime. Inbound notifications are mapped deterministically to
// atomspace mutations, broadcast to the cognitive agents, and counted; an
// advisory free-text query surface summarizes the runtime state.
package integration

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cognet-ai/cognet/atomspace"
	"github.com/cognet-ai/cognet/system"
)

// EventCallback is invoked for inbound events of a registered type. The
// callback runs on the notifier's goroutine; panics are recovered and
// logged.
type EventCallback func(source, data string)

// EventSink receives every inbound event after it has been applied to the
// graph, for external consumers such as the feed publisher.
type EventSink interface {
	Emit(eventType, source, data string)
}

// Stats counts the manager's integration activity.
type Stats struct {
	// ProcessesMonitored is the number of process-created notifications
	// handled.
	ProcessesMonitored uint64

	// CognitiveAgents is the number of agents created through the manager.
	CognitiveAgents uint64

	// EventsHandled is the total inbound notifications handled.
	EventsHandled uint64

	// Queries is the number of free-text queries served.
	Queries uint64
}

// Manager owns a cognitive System and exposes the host-facing surface: the
// four inbound notification hooks, per-event-type callbacks, the free-text
// query function, and configuration pass-through.
//
// The manager is constructed explicitly and passed wherever it is needed;
// there is no process-wide instance. Initialize must succeed before the
// hooks have any effect.
type Manager struct {
	logger  *slog.Logger
	sink    EventSink
	sysOpts []system.Option

	initialized atomic.Bool

	mu        sync.RWMutex
	sys       *system.System
	callbacks map[string]EventCallback
	processes map[string]uint32

	statsMu sync.Mutex
	stats   Stats
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger. If not provided, logging is
// discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEventSink forwards every handled event to the sink, e.g. a feed
// publisher.
func WithEventSink(sink EventSink) Option {
	return func(m *Manager) {
		m.sink = sink
	}
}

// WithSystemOptions sets the options used to build the cognitive system
// during Initialize.
func WithSystemOptions(opts ...system.Option) Option {
	return func(m *Manager) {
		m.sysOpts = append(m.sysOpts, opts...)
	}
}

// NewManager creates an uninitialized Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		callbacks: make(map[string]EventCallback),
		processes: make(map[string]uint32),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Initialize builds and initializes the cognitive system, seeds the
// host-level concepts and goals, and starts the default agents. On failure
// the manager remains uninitialized and the call can be retried. A second
// successful call is a no-op.
func (m *Manager) Initialize() error {
	if !m.initialized.CompareAndSwap(false, true) {
		return nil
	}

	sysOpts := append([]system.Option{system.WithLogger(m.logger)}, m.sysOpts...)
	sys, err := system.New(sysOpts...)
	if err != nil {
		m.initialized.Store(false)
		return fmt.Errorf("building cognitive system: %w", err)
	}
	sys.Initialize()

	space := sys.Space()
	space.CreateAtom(atomspace.TypeConcept, "HostProcess", 1.0, 1.0)
	space.CreateAtom(atomspace.TypeConcept, "HostDistribution", 1.0, 1.0)
	space.CreateAtom(atomspace.TypeConcept, "HostSystem", 1.0, 1.0)
	space.CreateAtom(atomspace.TypeGoal, "OptimizeHostPerformance", 0.8, 0.9)
	space.CreateAtom(atomspace.TypeGoal, "EnsureSystemSecurity", 1.0, 1.0)

	m.mu.Lock()
	m.sys = sys
	m.mu.Unlock()

	m.CreateAgent("SystemMonitor", RoleMonitoring)
	m.CreateAgent("ProcessOptimizer", RoleOptimization)
	m.CreateAgent("SecurityAnalyzer", RoleSecurity)

	m.logger.Info("cognitive integration initialized")
	return nil
}

// Shutdown stops the cognitive system and clears all registered callbacks
// and tracked processes. A second call is a no-op.
func (m *Manager) Shutdown() {
	if !m.initialized.CompareAndSwap(true, false) {
		return
	}

	m.mu.Lock()
	sys := m.sys
	m.sys = nil
	m.callbacks = make(map[string]EventCallback)
	m.processes = make(map[string]uint32)
	m.mu.Unlock()

	if sys != nil {
		sys.Shutdown()
	}

	m.logger.Info("cognitive integration shut down")
}

// System returns the underlying cognitive system, or nil before Initialize.
func (m *Manager) System() *system.System {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sys
}

// OnProcessCreate records a new host process in the graph: a Process atom
// keyed "Process:"+distroID+":"+pid linked to a Concept atom for its
// command.
func (m *Manager) OnProcessCreate(distroID string, pid uint32, command string) {
	sys := m.System()
	if sys == nil {
		return
	}

	space := sys.Space()
	processName := processAtomName(distroID, pid)
	process := space.CreateAtom(atomspace.TypeProcess, processName, 1.0, 0.8)
	cmd := space.CreateAtom(atomspace.TypeConcept, "Command:"+command, 0.7, 0.6)
	space.AddLink(process.ID(), cmd.ID())

	m.mu.Lock()
	m.processes[processName] = pid
	m.mu.Unlock()

	m.dispatch("process_create", distroID, processName+":"+command)

	m.statsMu.Lock()
	m.stats.ProcessesMonitored++
	m.stats.EventsHandled++
	m.statsMu.Unlock()
}

// OnProcessDestroy updates the process atom with exit information: truth
// 1.0 for a clean exit, 0.3 otherwise, and a Completion memory linked from
// the process. Unknown processes are ignored apart from the event counter.
func (m *Manager) OnProcessDestroy(distroID string, pid uint32, exitCode int) {
	sys := m.System()
	if sys == nil {
		return
	}

	space := sys.Space()
	processName := processAtomName(distroID, pid)

	if process := space.FindAtom(processName); process != nil {
		truth := 1.0
		if exitCode != 0 {
			truth = 0.3
		}
		process.SetTruthValue(truth, process.Confidence()+0.1)

		memoryName := "Completion:" + processName + ":" + strconv.Itoa(exitCode)
		memory := space.CreateAtom(atomspace.TypeMemory, memoryName, truth, 0.9)
		space.AddLink(process.ID(), memory.ID())
	}

	m.mu.Lock()
	delete(m.processes, processName)
	m.mu.Unlock()

	m.dispatch("process_destroy", distroID, processName+":"+strconv.Itoa(exitCode))

	m.statsMu.Lock()
	m.stats.EventsHandled++
	m.statsMu.Unlock()
}

// OnDistroEvent records knowledge about a distribution-level event.
func (m *Manager) OnDistroEvent(distroID, eventType, data string) {
	sys := m.System()
	if sys == nil {
		return
	}

	m.updateKnowledge(sys, "Distro:"+distroID, eventType+":"+data, 0.8)
	m.dispatch("distro_event", distroID, eventType+":"+data)

	m.statsMu.Lock()
	m.stats.EventsHandled++
	m.statsMu.Unlock()
}

// OnSystemEvent records knowledge about a system-level event.
func (m *Manager) OnSystemEvent(eventType, data string) {
	sys := m.System()
	if sys == nil {
		return
	}

	m.updateKnowledge(sys, "System", eventType+":"+data, 0.9)
	m.dispatch("system_event", "system", eventType+":"+data)

	m.statsMu.Lock()
	m.stats.EventsHandled++
	m.statsMu.Unlock()
}

// RegisterCallback installs the callback for an event type, replacing any
// previous one. Event types: process_create, process_destroy, distro_event,
// system_event.
func (m *Manager) RegisterCallback(eventType string, callback EventCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks[eventType] = callback
}

// UnregisterCallback removes the callback for an event type.
func (m *Manager) UnregisterCallback(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.callbacks, eventType)
}

// SetConfig stores a configuration key/value pair on the underlying system.
func (m *Manager) SetConfig(key, value string) {
	if sys := m.System(); sys != nil {
		sys.SetConfig(key, value)
	}
}

// Config returns the configuration value for key, or "" if absent or the
// manager is uninitialized.
func (m *Manager) Config(key string) string {
	if sys := m.System(); sys != nil {
		return sys.Config(key)
	}
	return ""
}

// Stats returns a snapshot of the integration counters.
func (m *Manager) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// dispatch fires the registered callback for the event type, forwards the
// event to the sink, and broadcasts it to all cognitive agents.
func (m *Manager) dispatch(eventType, source, data string) {
	m.mu.RLock()
	callback := m.callbacks[eventType]
	sys := m.sys
	m.mu.RUnlock()

	if callback != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("event callback failed",
						slog.String("event_type", eventType),
						slog.Any("panic", r),
					)
				}
			}()
			callback(source, data)
		}()
	}

	if m.sink != nil {
		m.sink.Emit(eventType, source, data)
	}

	if sys != nil {
		sys.Broadcast(eventType + ":" + source + ":" + data)
	}
}

// updateKnowledge get-or-creates a concept, attaches an information memory
// to it, and bumps the concept's attention.
func (m *Manager) updateKnowledge(sys *system.System, concept, information string, confidence float64) {
	space := sys.Space()
	conceptAtom := space.CreateAtom(atomspace.TypeConcept, concept, 0.5, confidence)
	info := space.CreateAtom(atomspace.TypeMemory, concept+"_Info:"+information, 0.8, confidence)
	space.AddLink(conceptAtom.ID(), info.ID())
	conceptAtom.SetAttention(conceptAtom.Attention() + 0.1)
}

func processAtomName(distroID string, pid uint32) string {
	return fmt.Sprintf("Process:%s:%d", distroID, pid)
}

// Query answers a free-text query about the cognitive state. The substrings
// "status", "processes", and "agents" select fixed summaries; any other
// text is substring-matched against atom names with attention above 0.3.
// The phrasing is advisory; only the selection rules are stable.
func (m *Manager) Query(query string) string {
	sys := m.System()
	if sys == nil {
		return "Error: cognitive system not initialized"
	}

	m.statsMu.Lock()
	m.stats.Queries++
	m.statsMu.Unlock()

	var b strings.Builder

	switch {
	case strings.Contains(query, "status"):
		stats := sys.Stats()
		fmt.Fprintf(&b, "Cognitive System Status:\n")
		fmt.Fprintf(&b, "- Total Agents: %d\n", stats.TotalAgents)
		fmt.Fprintf(&b, "- Active Agents: %d\n", stats.ActiveAgents)
		fmt.Fprintf(&b, "- Total Atoms: %d\n", stats.TotalAtoms)
		fmt.Fprintf(&b, "- Average Attention: %.3f\n", stats.AverageAttention)
		fmt.Fprintf(&b, "- Uptime: %dms", stats.Uptime.Milliseconds())

	case strings.Contains(query, "processes"):
		processes := sys.Space().AtomsByType(atomspace.TypeProcess)
		fmt.Fprintf(&b, "Monitored Processes (%d):\n", len(processes))
		for _, atom := range processes {
			fmt.Fprintf(&b, "- %s (Truth: %.2f, Attention: %.2f)\n",
				atom.Name(), atom.TruthValue(), atom.Attention())
		}

	case strings.Contains(query, "agents"):
		names := sys.AgentNames()
		fmt.Fprintf(&b, "Cognitive Agents (%d):\n", len(names))
		for _, name := range names {
			if a := sys.Agent(name); a != nil {
				fmt.Fprintf(&b, "- %s (State: %s)\n", name, a.State())
			}
		}

	default:
		matches := sys.Space().Query(func(atom *atomspace.Atom) bool {
			return strings.Contains(atom.Name(), query) && atom.Attention() > 0.3
		})
		fmt.Fprintf(&b, "Query Results for '%s':\n", query)
		for _, atom := range matches {
			fmt.Fprintf(&b, "- %s (Type: %s, Truth: %.2f)\n",
				atom.Name(), atom.Type(), atom.TruthValue())
		}
	}

	return b.String()
}

// QueryExpr answers a structured query: expr is a CEL expression over the
// atom variables (name, type, truth, confidence, attention) and every
// matching atom is listed. Unlike Query, a malformed expression is an
// error rather than a substring fallback.
func (m *Manager) QueryExpr(expr string) (string, error) {
	sys := m.System()
	if sys == nil {
		return "", fmt.Errorf("cognitive system not initialized")
	}

	pred, err := atomspace.CompileQuery(expr)
	if err != nil {
		return "", err
	}

	m.statsMu.Lock()
	m.stats.Queries++
	m.statsMu.Unlock()

	matches := sys.Space().Query(pred)

	var b strings.Builder
	fmt.Fprintf(&b, "Expression Results (%d):\n", len(matches))
	for _, atom := range matches {
		fmt.Fprintf(&b, "- %s (Type: %s, Truth: %.2f, Attention: %.2f)\n",
			atom.Name(), atom.Type(), atom.TruthValue(), atom.Attention())
	}
	return b.String(), nil
}

func (m *Manager) noteAgentCreated() {
	m.statsMu.Lock()
	m.stats.CognitiveAgents++
	m.statsMu.Unlock()
}

// noteAgentDestroyed decrements the agent counter, flooring at zero.
func (m *Manager) noteAgentDestroyed() {
	m.statsMu.Lock()
	if m.stats.CognitiveAgents > 0 {
		m.stats.CognitiveAgents--
	}
	m.statsMu.Unlock()
}
