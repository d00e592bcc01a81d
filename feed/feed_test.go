package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestFeed creates a miniredis instance and returns a connected Feed.
func setupTestFeed(t *testing.T) (*Feed, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	f, err := New(Options{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = f.Close()
		mr.Close()
	})

	return f, mr
}

// TestNew tests feed creation and connection.
func TestNew(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		f, err := New(Options{
			URL: fmt.Sprintf("redis://%s", mr.Addr()),
		})
		require.NoError(t, err)
		require.NotNil(t, f)
		defer f.Close()

		assert.Equal(t, DefaultChannel, f.channel)
	})

	t.Run("custom channel", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		f, err := New(Options{
			URL:     fmt.Sprintf("redis://%s", mr.Addr()),
			Channel: "custom:events",
		})
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, "custom:events", f.channel)
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := New(Options{
			URL:            "redis://localhost:99999",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := New(Options{
			URL: "invalid://url",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})
}

// TestPublish tests event publication and the retained history.
func TestPublish(t *testing.T) {
	t.Run("assigns id and timestamp", func(t *testing.T) {
		f, _ := setupTestFeed(t)
		ctx := context.Background()

		err := f.Publish(ctx, Event{
			Type:   EventAgentCreated,
			Source: "SystemMonitor",
			Data:   "agent registered",
		})
		require.NoError(t, err)

		events, err := f.History(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)

		assert.NotEmpty(t, events[0].ID)
		assert.False(t, events[0].PublishedAt.IsZero())
		assert.Equal(t, EventAgentCreated, events[0].Type)
		assert.Equal(t, "SystemMonitor", events[0].Source)
		assert.Equal(t, "agent registered", events[0].Data)
	})

	t.Run("preserves caller-set id", func(t *testing.T) {
		f, _ := setupTestFeed(t)
		ctx := context.Background()

		err := f.Publish(ctx, Event{
			ID:     "fixed-id",
			Type:   EventSystem,
			Source: "system",
		})
		require.NoError(t, err)

		events, err := f.History(ctx, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "fixed-id", events[0].ID)
	})

	t.Run("history newest first", func(t *testing.T) {
		f, _ := setupTestFeed(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			err := f.Publish(ctx, Event{
				Type:   EventAtomCreated,
				Source: "space",
				Data:   fmt.Sprintf("atom-%d", i),
			})
			require.NoError(t, err)
		}

		events, err := f.History(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 3)

		assert.Equal(t, "atom-2", events[0].Data)
		assert.Equal(t, "atom-1", events[1].Data)
		assert.Equal(t, "atom-0", events[2].Data)
	})

	t.Run("history respects limit", func(t *testing.T) {
		f, _ := setupTestFeed(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			err := f.Publish(ctx, Event{Type: EventSystem, Source: "system"})
			require.NoError(t, err)
		}

		events, err := f.History(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})
}

// TestSubscribe tests pub/sub delivery of published events.
func TestSubscribe(t *testing.T) {
	t.Run("receives published event", func(t *testing.T) {
		f, _ := setupTestFeed(t)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := f.Subscribe(ctx)
		require.NoError(t, err)

		err = f.Publish(ctx, Event{
			Type:   EventGoalAdded,
			Source: "ProcessOptimizer",
			Data:   "OptimizePerformance",
		})
		require.NoError(t, err)

		select {
		case event := <-events:
			assert.Equal(t, EventGoalAdded, event.Type)
			assert.Equal(t, "ProcessOptimizer", event.Source)
			assert.Equal(t, "OptimizePerformance", event.Data)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	})

	t.Run("channel closes on context cancel", func(t *testing.T) {
		f, _ := setupTestFeed(t)

		ctx, cancel := context.WithCancel(context.Background())

		events, err := f.Subscribe(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-events:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for channel close")
		}
	})
}

// TestEmit tests the fire-and-forget event sink entry point.
func TestEmit(t *testing.T) {
	t.Run("publishes to history", func(t *testing.T) {
		f, _ := setupTestFeed(t)

		f.Emit("process_create", "host", "Process:init:1")

		events, err := f.History(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, EventProcessCreate, events[0].Type)
		assert.Equal(t, "host", events[0].Source)
	})

	t.Run("swallows publish errors", func(t *testing.T) {
		f, mr := setupTestFeed(t)

		mr.Close()

		// Must not panic after the backing Redis is gone
		f.Emit("system_event", "system", "shutdown")
	})
}
