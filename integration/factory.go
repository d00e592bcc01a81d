package integration

import (
	"fmt"
	"sync"

	"github.com/cognet-ai/cognet/agent"
	"github.com/cognet-ai/cognet/atomspace"
)

// Role selects the goal set a newly created agent starts with.
type Role string

const (
	RoleMonitoring         Role = "monitoring"
	RoleOptimization       Role = "optimization"
	RoleSecurity           Role = "security"
	RoleResourceManagement Role = "resource_management"
	RoleLearning           Role = "learning"
	RoleScheduling         Role = "scheduling"
	RoleCustom             Role = "custom"
)

// roleGoal describes one goal atom a role pre-populates.
type roleGoal struct {
	name       string
	perAgent   bool // when set, the agent name is appended to the goal name
	truth      float64
	confidence float64
}

var roleGoals = map[Role][]roleGoal{
	RoleMonitoring: {
		{name: "MonitorSystem:", perAgent: true, truth: 0.9, confidence: 0.8},
	},
	RoleOptimization: {
		{name: "OptimizePerformance:", perAgent: true, truth: 0.8, confidence: 0.9},
	},
	RoleSecurity: {
		{name: "EnsureSecurity:", perAgent: true, truth: 1.0, confidence: 1.0},
	},
	RoleResourceManagement: {
		{name: "OptimizeMemoryUsage", truth: 0.8, confidence: 0.9},
		{name: "BalanceCPULoad", truth: 0.8, confidence: 0.9},
	},
	RoleLearning: {
		{name: "LearnSystemPatterns", truth: 0.9, confidence: 0.8},
		{name: "AdaptToChanges", truth: 0.8, confidence: 0.9},
	},
	RoleScheduling: {
		{name: "OptimizeScheduling", truth: 0.8, confidence: 0.9},
		{name: "BalanceWorkload", truth: 0.8, confidence: 0.9},
	},
}

// CreateAgent creates (or fetches) an agent through the cognitive system,
// attaches the role's goal atoms, starts its worker, and counts it. Returns
// nil before Initialize.
func (m *Manager) CreateAgent(name string, role Role) *agent.Agent {
	sys := m.System()
	if sys == nil {
		return nil
	}

	a := sys.CreateAgent(name)
	space := sys.Space()

	for _, g := range roleGoals[role] {
		goalName := g.name
		if g.perAgent {
			goalName += name
		}
		goal := space.CreateAtom(atomspace.TypeGoal, goalName, g.truth, g.confidence)
		a.AddGoal(goal)
	}

	a.Start()
	m.noteAgentCreated()
	return a
}

// DestroyAgent stops and removes the named agent, reporting whether it
// existed.
func (m *Manager) DestroyAgent(name string) bool {
	sys := m.System()
	if sys == nil {
		return false
	}

	removed := sys.RemoveAgent(name)
	if removed {
		m.noteAgentDestroyed()
	}
	return removed
}

// Template is a named agent blueprint registered with a Factory.
type Template struct {
	Role           Role
	Specialization string
}

// Factory builds agents from registered templates and manages their
// self-modification settings through the system configuration store.
type Factory struct {
	manager *Manager

	mu        sync.RWMutex
	templates map[string]Template
}

// NewFactory creates a Factory with the default template set.
func NewFactory(manager *Manager) *Factory {
	f := &Factory{
		manager:   manager,
		templates: make(map[string]Template),
	}

	f.RegisterTemplate("BasicOptimizer", Template{
		Role:           RoleOptimization,
		Specialization: "Basic process optimization",
	})
	f.RegisterTemplate("AdvancedResourceManager", Template{
		Role:           RoleResourceManagement,
		Specialization: "Advanced resource management with predictive capabilities",
	})
	f.RegisterTemplate("SecurityScanner", Template{
		Role:           RoleSecurity,
		Specialization: "Real-time security threat detection",
	})

	return f
}

// RegisterTemplate adds or replaces a named template.
func (f *Factory) RegisterTemplate(name string, tmpl Template) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates[name] = tmpl
}

// Templates returns the names of all registered templates.
func (f *Factory) Templates() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.templates))
	for name := range f.templates {
		names = append(names, name)
	}
	return names
}

// Create builds an agent from the named template. Self-modification
// parameters are recorded in the system configuration store under
// per-agent keys. Returns an error for unknown templates or an
// uninitialized manager.
func (f *Factory) Create(templateName, agentName string) (*agent.Agent, error) {
	f.mu.RLock()
	tmpl, ok := f.templates[templateName]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown agent template %q", templateName)
	}

	a := f.manager.CreateAgent(agentName, tmpl.Role)
	if a == nil {
		return nil, fmt.Errorf("cognitive system not initialized")
	}

	f.SetSelfModificationParameters(agentName, 0.01, "safe_modifications_only")
	return a, nil
}

// CreateCustom builds an agent with a single goal atom derived from a
// free-form specification.
func (f *Factory) CreateCustom(agentName, specification string) (*agent.Agent, error) {
	a := f.manager.CreateAgent(agentName, RoleCustom)
	if a == nil {
		return nil, fmt.Errorf("cognitive system not initialized")
	}

	sys := f.manager.System()
	goal := sys.Space().CreateAtom(atomspace.TypeGoal, "CustomGoal:"+specification, 0.8, 0.9)
	a.AddGoal(goal)

	return a, nil
}

// SetSelfModificationParameters records an agent's self-modification
// probability and constraints in the system configuration store. The
// runtime does not read these back; the cycle keeps its fixed draw.
func (f *Factory) SetSelfModificationParameters(agentName string, probability float64, constraints string) {
	f.manager.SetConfig(agentName+"_self_mod_prob", fmt.Sprintf("%g", probability))
	f.manager.SetConfig(agentName+"_self_mod_constraints", constraints)
}
