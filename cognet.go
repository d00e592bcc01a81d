package cognet

import (
	"log/slog"
	"os"

	"github.com/cognet-ai/cognet/agent"
	"github.com/cognet-ai/cognet/feed"
	"github.com/cognet-ai/cognet/integration"
	"github.com/cognet-ai/cognet/system"
)

// Runtime is the top-level entry point. It owns the integration manager,
// the cognitive system behind it, and an optional Redis event feed.
//
// A Runtime is inert until Initialize is called.
type Runtime struct {
	logger     *slog.Logger
	manager    *integration.Manager
	feed       *feed.Feed
	configPath string
}

// New creates a new cognitive runtime with the provided options.
//
// Example:
//
//	runtime, err := cognet.New(
//	    cognet.WithLogger(logger),
//	    cognet.WithConfig("/etc/cognet/config.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer runtime.Shutdown()
func New(opts ...Option) (*Runtime, error) {
	cfg := &runtimeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Create default logger if not provided
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	r := &Runtime{
		logger:     cfg.logger,
		configPath: cfg.configPath,
	}

	sink := cfg.sink
	if cfg.feedOpts != nil {
		feedOpts := *cfg.feedOpts
		if feedOpts.Logger == nil {
			feedOpts.Logger = cfg.logger
		}
		f, err := feed.New(feedOpts)
		if err != nil {
			return nil, NewNetworkError("Runtime.New", err)
		}
		r.feed = f
		sink = f
	}

	sysOpts := []system.Option{}
	if cfg.tracer != nil {
		sysOpts = append(sysOpts, system.WithTracer(cfg.tracer))
	}
	if cfg.meterProvider != nil {
		sysOpts = append(sysOpts, system.WithMeterProvider(cfg.meterProvider))
	}
	if len(cfg.agentOpts) > 0 {
		sysOpts = append(sysOpts, system.WithAgentOptions(cfg.agentOpts...))
	}

	managerOpts := []integration.Option{
		integration.WithLogger(cfg.logger),
		integration.WithSystemOptions(sysOpts...),
	}
	if sink != nil {
		managerOpts = append(managerOpts, integration.WithEventSink(sink))
	}

	r.manager = integration.NewManager(managerOpts...)

	return r, nil
}

// Initialize brings up the cognitive system, seeds host knowledge, starts
// the default agents, and loads the configuration file if one was set.
func (r *Runtime) Initialize() error {
	if err := r.manager.Initialize(); err != nil {
		return NewInternalError("Runtime.Initialize", err)
	}

	if r.configPath != "" {
		values, err := system.LoadConfig(r.configPath)
		if err != nil {
			r.manager.Shutdown()
			return NewConfigurationError("Runtime.Initialize", err).WithContext(map[string]any{
				"path": r.configPath,
			})
		}
		for key, value := range values {
			r.manager.SetConfig(key, value)
		}
	}

	return nil
}

// Shutdown stops the cognitive system and closes the event feed if one is
// attached. Safe to call more than once.
func (r *Runtime) Shutdown() {
	r.manager.Shutdown()

	if r.feed != nil {
		CloseWithLog(r.feed, r.logger, "event feed")
		r.feed = nil
	}
}

// Manager returns the integration manager for host event hooks and
// callback registration.
func (r *Runtime) Manager() *integration.Manager {
	return r.manager
}

// System returns the cognitive system, or nil before Initialize.
func (r *Runtime) System() *system.System {
	return r.manager.System()
}

// Feed returns the attached event feed, or nil when none was configured.
func (r *Runtime) Feed() *feed.Feed {
	return r.feed
}

// CreateAgent creates and starts a cognitive agent with goals derived from
// the given role.
func (r *Runtime) CreateAgent(name string, role integration.Role) (*agent.Agent, error) {
	a := r.manager.CreateAgent(name, role)
	if a == nil {
		return nil, NewValidationError("Runtime.CreateAgent", ErrNotInitialized)
	}
	return a, nil
}

// Agent returns the named agent.
func (r *Runtime) Agent(name string) (*agent.Agent, error) {
	sys := r.manager.System()
	if sys == nil {
		return nil, NewValidationError("Runtime.Agent", ErrNotInitialized)
	}

	a := sys.Agent(name)
	if a == nil {
		return nil, NewNotFoundError("Runtime.Agent", ErrAgentNotFound).WithContext(map[string]any{
			"name": name,
		})
	}
	return a, nil
}

// DestroyAgent stops and removes the named agent.
func (r *Runtime) DestroyAgent(name string) error {
	if !r.manager.DestroyAgent(name) {
		return NewNotFoundError("Runtime.DestroyAgent", ErrAgentNotFound).WithContext(map[string]any{
			"name": name,
		})
	}
	return nil
}

// OnProcessCreate forwards a process creation event to the cognitive layer.
func (r *Runtime) OnProcessCreate(distroID string, pid uint32, command string) {
	r.manager.OnProcessCreate(distroID, pid, command)
}

// OnProcessDestroy forwards a process exit event to the cognitive layer.
func (r *Runtime) OnProcessDestroy(distroID string, pid uint32, exitCode int) {
	r.manager.OnProcessDestroy(distroID, pid, exitCode)
}

// OnDistroEvent forwards a distribution lifecycle event to the cognitive
// layer.
func (r *Runtime) OnDistroEvent(distroID, eventType, data string) {
	r.manager.OnDistroEvent(distroID, eventType, data)
}

// OnSystemEvent forwards a host-wide event to the cognitive layer.
func (r *Runtime) OnSystemEvent(eventType, data string) {
	r.manager.OnSystemEvent(eventType, data)
}

// Query answers a free-text question about the cognitive state.
func (r *Runtime) Query(query string) string {
	return r.manager.Query(query)
}

// QueryExpr answers a structured query over the atom graph. The expression
// language is CEL with the variables name, type, truth, confidence, and
// attention.
func (r *Runtime) QueryExpr(expr string) (string, error) {
	out, err := r.manager.QueryExpr(expr)
	if err != nil {
		return "", NewValidationError("Runtime.QueryExpr", err)
	}
	return out, nil
}
