package cognet

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/cognet-ai/cognet/agent"
	"github.com/cognet-ai/cognet/feed"
	"github.com/cognet-ai/cognet/integration"
)

// Option configures the Runtime.
type Option func(*runtimeConfig)

// runtimeConfig holds configuration for the Runtime instance.
type runtimeConfig struct {
	configPath    string
	logger        *slog.Logger
	tracer        trace.Tracer
	meterProvider metric.MeterProvider
	sink          integration.EventSink
	feedOpts      *feed.Options
	agentOpts     []agent.Option
}

// WithConfig sets the configuration file path for the runtime.
// The file is a flat YAML mapping of string keys to scalar values and is
// loaded into the cognitive system during Initialize.
func WithConfig(path string) Option {
	return func(c *runtimeConfig) {
		c.configPath = path
	}
}

// WithLogger sets a custom logger for the runtime.
// If not provided, a default logger will be created.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runtimeConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for agent cycle spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *runtimeConfig) {
		c.tracer = tracer
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider used for
// runtime metrics. Defaults to a no-op provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *runtimeConfig) {
		c.meterProvider = mp
	}
}

// WithEventSink routes cognitive events to the given sink.
// Mutually exclusive with WithFeed; the sink set last wins.
func WithEventSink(sink integration.EventSink) Option {
	return func(c *runtimeConfig) {
		c.sink = sink
	}
}

// WithFeed connects the runtime to a Redis event feed. Events raised by
// the integration layer are published there in addition to registered
// callbacks.
func WithFeed(opts feed.Options) Option {
	return func(c *runtimeConfig) {
		c.feedOpts = &opts
	}
}

// WithAgentOptions sets extra options applied to every agent the runtime
// creates. Useful for deterministic self modification in tests.
func WithAgentOptions(opts ...agent.Option) Option {
	return func(c *runtimeConfig) {
		c.agentOpts = append(c.agentOpts, opts...)
	}
}
