package feed

import (
	"time"
)

// EventType identifies the kind of cognitive event published to the feed.
type EventType string

const (
	// EventAgentCreated is published when an agent is registered.
	EventAgentCreated EventType = "agent_created"

	// EventAgentDestroyed is published when an agent is removed.
	EventAgentDestroyed EventType = "agent_destroyed"

	// EventAtomCreated is published when a new atom enters the space.
	EventAtomCreated EventType = "atom_created"

	// EventGoalAdded is published when a goal is attached to an agent.
	EventGoalAdded EventType = "goal_added"

	// EventSelfModification is published when an agent converts a plan
	// into a rule.
	EventSelfModification EventType = "self_modification"

	// EventProcessCreate mirrors the process-created integration hook.
	EventProcessCreate EventType = "process_create"

	// EventProcessDestroy mirrors the process-destroyed integration hook.
	EventProcessDestroy EventType = "process_destroy"

	// EventDistro mirrors the distribution-event integration hook.
	EventDistro EventType = "distro_event"

	// EventSystem mirrors the system-event integration hook.
	EventSystem EventType = "system_event"
)

// Event is one cognitive event on the feed.
type Event struct {
	// ID is a UUID assigned at publish time.
	ID string `json:"id"`

	// Type is the event type.
	Type EventType `json:"type"`

	// Source names the originating component (agent name, distro id, or
	// "system").
	Source string `json:"source"`

	// Data is the event payload, formatted by the producer.
	Data string `json:"data"`

	// PublishedAt is the publish timestamp.
	PublishedAt time.Time `json:"published_at"`
}
