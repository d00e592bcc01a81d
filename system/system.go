// Package system provides the orchestrator that owns one atomspace and a
// registry of named cognitive agents, exposing lifecycle, configuration,
// broadcast, and statistics operations.
package system

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/cognet-ai/cognet/agent"
	"github.com/cognet-ai/cognet/atomspace"
)

// Default configuration entries seeded by Initialize. They are stored for
// external inspection; the runtime itself keeps the cycle interval and
// self-modification probability hard-coded.
const (
	ConfigMaxAgents               = "max_agents"
	ConfigAttentionUpdateInterval = "attention_update_interval"
	ConfigSelfModProbability      = "self_modification_probability"
)

// Stats is an aggregate snapshot of the system.
type Stats struct {
	// TotalAgents is the number of registered agents.
	TotalAgents int

	// ActiveAgents is the number of agents whose state is not Inactive.
	ActiveAgents int

	// TotalAtoms is the number of atoms in the shared space.
	TotalAtoms int

	// AverageAttention is the mean attention across all atoms, 0 if the
	// space is empty.
	AverageAttention float64

	// Uptime is the time elapsed since the system was constructed.
	Uptime time.Duration
}

// System owns one Space shared by all the agents it creates, a name-keyed
// agent registry, and a flat string configuration store. The registry and
// the configuration store are guarded independently of the space so their
// operations never wait on graph traffic.
type System struct {
	space     *atomspace.Space
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *systemMetrics
	agentOpts []agent.Option
	startTime time.Time

	initialized atomic.Bool

	agentsMu sync.RWMutex
	agents   map[string]*agent.Agent

	configMu sync.RWMutex
	config   map[string]string
}

// Option configures a System.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	tracer        trace.Tracer
	meterProvider metric.MeterProvider
	agentOpts     []agent.Option
}

// WithLogger sets the system logger. If not provided, logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer handed to every created agent.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for system
// metrics. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

// WithAgentOptions appends options applied to every agent the system
// creates, e.g. a deterministic self-modification trigger in tests.
func WithAgentOptions(opts ...agent.Option) Option {
	return func(c *config) {
		c.agentOpts = append(c.agentOpts, opts...)
	}
}

// New constructs a System with an empty agent registry and a fresh Space.
// Call Initialize to seed the system atoms and default configuration.
func New(opts ...Option) (*System, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.meterProvider == nil {
		cfg.meterProvider = otel.GetMeterProvider()
	}

	agentOpts := []agent.Option{agent.WithLogger(cfg.logger)}
	if cfg.tracer != nil {
		agentOpts = append(agentOpts, agent.WithTracer(cfg.tracer))
	}
	agentOpts = append(agentOpts, cfg.agentOpts...)

	s := &System{
		space:     atomspace.New(atomspace.WithLogger(cfg.logger)),
		logger:    cfg.logger,
		tracer:    cfg.tracer,
		agentOpts: agentOpts,
		startTime: time.Now(),
		agents:    make(map[string]*agent.Agent),
		config:    make(map[string]string),
	}

	metrics, err := newSystemMetrics(cfg.meterProvider, s)
	if err != nil {
		return nil, fmt.Errorf("initializing metrics: %w", err)
	}
	s.metrics = metrics

	return s, nil
}

// Space returns the shared atomspace.
func (s *System) Space() *atomspace.Space {
	return s.space
}

// Initialize seeds the system-level concepts, goals, and default
// configuration entries. A second call is a no-op.
func (s *System) Initialize() {
	if !s.initialized.CompareAndSwap(false, true) {
		return
	}

	s.space.CreateAtom(atomspace.TypeConcept, "CognitiveSystem", 1.0, 1.0)
	s.space.CreateAtom(atomspace.TypeGoal, "SystemStability", 1.0, 1.0)
	s.space.CreateAtom(atomspace.TypeGoal, "OptimizePerformance", 0.8, 0.9)

	s.SetConfig(ConfigMaxAgents, "10")
	s.SetConfig(ConfigAttentionUpdateInterval, "1000")
	s.SetConfig(ConfigSelfModProbability, "0.01")

	s.logger.Info("cognitive system initialized")
}

// Initialized reports whether Initialize has completed.
func (s *System) Initialized() bool {
	return s.initialized.Load()
}

// Shutdown stops and removes every registered agent. A second call is a
// no-op.
func (s *System) Shutdown() {
	if !s.initialized.CompareAndSwap(true, false) {
		return
	}

	s.agentsMu.Lock()
	agents := s.agents
	s.agents = make(map[string]*agent.Agent)
	s.agentsMu.Unlock()

	for _, a := range agents {
		a.Stop()
	}

	s.logger.Info("cognitive system shut down", slog.Int("agents_stopped", len(agents)))
}

// CreateAgent returns the agent registered under name, creating it if it
// does not exist. On first creation the agent is given a default goal atom
// named "AgentGoal:"+name. The agent is not started.
func (s *System) CreateAgent(name string) *agent.Agent {
	s.agentsMu.Lock()
	defer s.agentsMu.Unlock()

	if existing, ok := s.agents[name]; ok {
		return existing
	}

	a := agent.New(name, s.space, s.agentOpts...)
	goal := s.space.CreateAtom(atomspace.TypeGoal, "AgentGoal:"+name, 0.5, 0.8)
	a.AddGoal(goal)
	s.agents[name] = a

	s.metrics.agentsCreated.Add(context.Background(), 1)
	s.logger.Info("agent created", slog.String("agent", name))

	return a
}

// Agent returns the agent registered under name, or nil if absent.
func (s *System) Agent(name string) *agent.Agent {
	s.agentsMu.RLock()
	defer s.agentsMu.RUnlock()
	return s.agents[name]
}

// RemoveAgent stops the named agent's worker and removes it from the
// registry, reporting whether it existed.
func (s *System) RemoveAgent(name string) bool {
	s.agentsMu.Lock()
	a, ok := s.agents[name]
	if ok {
		delete(s.agents, name)
	}
	s.agentsMu.Unlock()

	if !ok {
		return false
	}

	a.Stop()
	s.logger.Info("agent removed", slog.String("agent", name))
	return true
}

// AgentNames returns the names of all registered agents.
func (s *System) AgentNames() []string {
	s.agentsMu.RLock()
	defer s.agentsMu.RUnlock()
	names := make([]string, 0, len(s.agents))
	for name := range s.agents {
		names = append(names, name)
	}
	return names
}

// AgentCount returns the number of registered agents.
func (s *System) AgentCount() int {
	s.agentsMu.RLock()
	defer s.agentsMu.RUnlock()
	return len(s.agents)
}

// Broadcast delivers text to every registered agent as an inbound message
// from "System".
func (s *System) Broadcast(text string) {
	s.agentsMu.RLock()
	agents := make([]*agent.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		agents = append(agents, a)
	}
	s.agentsMu.RUnlock()

	for _, a := range agents {
		a.Deliver("System", text)
	}

	s.metrics.broadcasts.Add(context.Background(), 1)
}

// Update runs one attention maintenance pass over the space, then applies
// the activation heuristic: if fewer than half the registered agents are
// active, exactly one currently inactive agent is resumed.
func (s *System) Update() {
	if !s.initialized.Load() {
		return
	}

	s.space.UpdateAttention()
	s.metrics.maintenancePasses.Add(context.Background(), 1)

	stats := s.Stats()
	if stats.ActiveAgents >= stats.TotalAgents/2 {
		return
	}

	s.agentsMu.RLock()
	var idle *agent.Agent
	for _, a := range s.agents {
		if a.State() == agent.StateInactive {
			idle = a
			break
		}
	}
	s.agentsMu.RUnlock()

	if idle != nil {
		idle.Resume()
		s.logger.Debug("resumed idle agent", slog.String("agent", idle.Name()))
	}
}

// SetConfig stores a flat configuration key/value pair.
func (s *System) SetConfig(key, value string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config[key] = value
}

// Config returns the value stored under key, or "" if absent. A missing
// key is a normal outcome, not an error.
func (s *System) Config(key string) string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config[key]
}

// Stats returns an aggregate snapshot of the system.
func (s *System) Stats() Stats {
	stats := Stats{
		Uptime: time.Since(s.startTime),
	}

	s.agentsMu.RLock()
	stats.TotalAgents = len(s.agents)
	for _, a := range s.agents {
		if a.State() != agent.StateInactive {
			stats.ActiveAgents++
		}
	}
	s.agentsMu.RUnlock()

	stats.TotalAtoms = s.space.Len()

	all := s.space.Query(func(*atomspace.Atom) bool { return true })
	if len(all) > 0 {
		total := 0.0
		for _, atom := range all {
			total += atom.Attention()
		}
		stats.AverageAttention = total / float64(len(all))
	}

	return stats
}
