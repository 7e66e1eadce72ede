package ports

import "context"

const (
	// EventPipelineStarted is emitted once a plan is resolved, just before
	// the executor runs it.
	EventPipelineStarted = "pipeline.started"
	// EventPipelineCompleted is emitted after a run finishes with no errors.
	EventPipelineCompleted = "pipeline.completed"
	// EventPipelineFailed is emitted when a run finishes with any error.
	EventPipelineFailed = "pipeline.failed"
	// The four event types below are defined for subscribers, but no code in
	// this module publishes them.

	// EventActionSetup names the event for an action's setup returning.
	EventActionSetup = "action.setup"
	// EventActionTeardown names the event for an action's teardown returning.
	EventActionTeardown = "action.teardown"
	// EventGameLaunched names the event for the supervisor locating the game's pid.
	EventGameLaunched = "game.launched"
	// EventGameExited names the event for the supervisor observing the game exit.
	EventGameExited = "game.exited"
)

// DomainEvent represents a significant occurrence during a pipeline run.
// Subscribers use it for logging, RPC streaming, or front-end notification.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Publish is
// synchronous: it blocks until every handler has run, so log lines and RPC
// notifications appear before the originating call returns. Handlers that
// need to do slow work should hand off to a goroutine themselves.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes one event of a specific type.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler; Unsubscribe stops delivery.
type Subscription interface {
	Unsubscribe()
}
