package game

import (
	"github.com/coder/quartz"

	"github.com/lox/bigtwo/internal/gameid"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithEventBus publishes engine events on bus. Without it the engine
// creates a private bus, reachable through Engine.Events.
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) {
		if bus != nil {
			e.bus = bus
		}
	}
}

// WithClock sets the clock used to timestamp events. Default is the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithGameIDs replaces the game ID generator, mainly so tests get stable IDs.
func WithGameIDs(next func() string) Option {
	return func(e *Engine) {
		if next != nil {
			e.nextID = next
		}
	}
}

func defaultGameIDs() string { return gameid.Generate() }
