// Package cognet provides an embeddable cognitive layer built around an
// in-memory knowledge graph and autonomous agents.
//
// The package is organized around several key concepts:
//
//   - Atoms: typed graph nodes carrying truth, confidence, and attention
//   - AtomSpace: the shared hypergraph all components read and write
//   - Agents: autonomous workers running a perceive/reason/plan/act/learn cycle
//   - System: the orchestrator owning the space, the agents, and maintenance
//   - Integration: host-facing hooks that translate external events into atoms
//
// # Getting Started
//
// Create a cognitive runtime with New, initialize it, and feed it events:
//
//	runtime, err := cognet.New(
//	    cognet.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := runtime.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//	defer runtime.Shutdown()
//
//	runtime.OnProcessCreate("distro-1", 4242, "/usr/bin/make")
//	fmt.Println(runtime.Query("status"))
//
// # Error Handling
//
// The package uses sentinel errors and a structured error type:
//
//	if err != nil {
//	    if errors.Is(err, cognet.ErrNotInitialized) {
//	        // Initialize first
//	    }
//	}
//
// # Observability
//
// Tracing and metrics use OpenTelemetry. Pass a tracer with WithTracer and
// a meter provider with WithMeterProvider; both default to no-ops.
//
// # Thread Safety
//
// All exported methods are safe for concurrent use.
package cognet
