// Package session wraps the fader engine with attach/detach handling. The
// engine survives a reconnect of the same device; a different device gets a
// fresh engine so stale fader positions never leak between sessions.
package session

import (
	"fmt"

	"onairlink/internal/engine"
	"onairlink/internal/logger"
	"onairlink/internal/profile"
)

// State is the lifecycle state of the hardware session.
type State uint8

const (
	// Searching - no supported device has been seen yet.
	Searching State = iota
	// Attached - transport connected, engine live.
	Attached
	// Detached - transport lost, engine state retained for a reattach.
	Detached
)

func (s State) String() string {
	switch s {
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	default:
		return "searching"
	}
}

// Session owns exactly one engine at a time.
type Session struct {
	log        logger.Logger
	deviceName string

	state  State
	label  string // transport label the current engine was built for
	engine *engine.Engine
}

// New starts a session in the Searching state.
func New(log logger.Logger, deviceName string) *Session {
	return &Session{log: log, deviceName: deviceName}
}

// Attach resolves the transport label to a profile and activates an engine.
// A label equal to the previous one reuses the retained engine; anything
// else gets a new engine from construction defaults. An unsupported label
// fails without touching the current state.
func (s *Session) Attach(label string) error {
	prof, ok := profile.Detect(label)
	if !ok {
		return fmt.Errorf("session: unsupported device %q", label)
	}

	if s.engine == nil || label != s.label {
		s.engine = engine.New(s.log, prof, s.deviceName)
		s.label = label
		s.log.With(logger.Fields{"module": "session"}).
			Infof("new engine for %q (%s, %d channels)", label, prof.Model, prof.Channels)
	}
	s.state = Attached
	return nil
}

// Detach marks the transport lost. Engine state is kept.
func (s *Session) Detach() {
	if s.state != Attached {
		return
	}
	s.state = Detached
	s.log.With(logger.Fields{"module": "session"}).Infof("detached from %q", s.label)
}

// HandleEvent forwards one event to the engine. Events arriving while not
// attached are dropped.
func (s *Session) HandleEvent(ev engine.Event) [][]byte {
	if s.state != Attached || s.engine == nil {
		return nil
	}
	return s.engine.HandleEvent(ev)
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// OnAir returns the engine's current on-air vector, nil before the first
// attach.
func (s *Session) OnAir() []bool {
	if s.engine == nil {
		return nil
	}
	return s.engine.OnAir()
}
