// Package feed publishes cognitive events to Redis so external consumers
// can follow what the cognitive system is doing. Events flow over a
// pub/sub channel and are additionally retained in a capped history list
// for late joiners.
package feed

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel events are published to.
const DefaultChannel = "cognet:events"

// historyKey is the Redis list holding the most recent events.
const historyKey = "cognet:events:history"

// historyLimit caps the retained history length.
const historyLimit = 1000

// Options configures the Redis connection for the feed.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// Channel is the pub/sub channel name. Defaults to DefaultChannel.
	Channel string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration

	// Logger receives publish failures from Emit. Defaults to a discard
	// logger.
	Logger *slog.Logger
}

// Feed publishes and subscribes to cognitive events over Redis.
type Feed struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// New creates a feed connected to the Redis instance named by opts.
func New(opts Options) (*Feed, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	if opts.Channel == "" {
		opts.Channel = DefaultChannel
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}

	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Feed{
		client:  client,
		channel: opts.Channel,
		logger:  opts.Logger,
	}, nil
}

// Publish sends an event to the feed channel and appends it to the
// retained history. The event ID and timestamp are assigned here if unset.
func (f *Feed) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.PublishedAt.IsZero() {
		event.PublishedAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := f.client.Publish(ctx, f.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", f.channel, err)
	}

	pipe := f.client.Pipeline()
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, historyLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record event history: %w", err)
	}

	return nil
}

// Emit publishes an event built from the given type, source, and data.
// Publish failures are logged rather than returned, so Emit can sit on
// the hot path of event dispatch without propagating transport errors
// into cognitive processing.
func (f *Feed) Emit(eventType, source, data string) {
	event := Event{
		Type:   EventType(eventType),
		Source: source,
		Data:   data,
	}

	if err := f.Publish(context.Background(), event); err != nil {
		f.logger.Error("failed to emit event",
			"type", eventType,
			"source", source,
			"error", err)
	}
}

// History returns up to limit of the most recently published events,
// newest first.
func (f *Feed) History(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}

	raw, err := f.client.LRange(ctx, historyKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event history: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for _, payload := range raw {
		var event Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			// Skip malformed entries but keep the rest
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// Subscribe creates a subscription to the feed channel.
// Returns a channel that receives events until the context is cancelled.
func (f *Feed) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub := f.client.Subscribe(ctx, f.channel)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", f.channel, err)
	}

	eventChan := make(chan Event)

	go func() {
		defer close(eventChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					// Log error but continue processing
					continue
				}

				select {
				case eventChan <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return eventChan, nil
}

// Close closes the Redis connection.
func (f *Feed) Close() error {
	return f.client.Close()
}
