// Package midiin watches for the mixer's USB MIDI port, decodes its messages
// into engine events, and reports attach/detach transitions. It handles
// hot-plug (mixer appears) and hot-unplug (mixer disappears) transparently.
package midiin

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"onairlink/internal/engine"
	"onairlink/internal/logger"
)

const rescanInterval = time.Second

// MessageKind tags watcher output.
type MessageKind uint8

const (
	// Attached - a matching port was connected; Label carries its name.
	Attached MessageKind = iota + 1
	// Detached - the connected port was lost.
	Detached
	// ControlEvent - one decoded control surface event.
	ControlEvent
)

// Message is one watcher notification.
type Message struct {
	Kind  MessageKind
	Label string
	Event engine.Event
}

// Watcher scans MIDI inputs and keeps a connection to the first port whose
// name contains the configured match string.
type Watcher struct {
	log   logger.Logger
	match string
	out   chan Message

	mu           sync.Mutex
	drv          *rtmididrv.Driver
	inPort       drivers.In
	stopFn       func()
	connected    bool
	selectedName string
	lastRescanAt time.Time
}

// NewWatcher initialises the rtmidi driver. Call Close when done.
func NewWatcher(log logger.Logger, match string) (*Watcher, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &Watcher{
		log:   log,
		match: match,
		out:   make(chan Message, 64),
		drv:   drv,
	}, nil
}

// Messages returns the channel attach/detach/event notifications arrive on.
func (w *Watcher) Messages() <-chan Message { return w.out }

// Start runs the rescan loop until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(rescanInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				w.tick()
			}
		}
	}()
}

// Close shuts down the active connection and the rtmidi driver.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeConn(false)
	w.drv.Close()
}

func (w *Watcher) tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if !w.lastRescanAt.IsZero() && now.Sub(w.lastRescanAt) < rescanInterval {
		return
	}
	w.lastRescanAt = now

	inputs := w.listInputs()

	if w.connected {
		for _, n := range inputs {
			if n == w.selectedName {
				return // still there
			}
		}
		w.log.With(logger.Fields{"module": "midi"}).Warnf("device disappeared: %s", w.selectedName)
		w.closeConn(true)
		w.lastRescanAt = time.Time{} // rescan immediately next tick
		return
	}

	for _, name := range inputs {
		if !strings.Contains(name, w.match) {
			continue
		}
		if err := w.openByName(name); err != nil {
			w.log.With(logger.Fields{"module": "midi"}).Errorf("connect to %q failed: %v", name, err)
		}
		return
	}
}

func (w *Watcher) listInputs() []string {
	ins, err := w.drv.Ins()
	if err != nil {
		w.log.With(logger.Fields{"module": "midi"}).Errorf("list inputs failed: %v", err)
		return nil
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// closeConn tears down the port. Caller holds w.mu.
func (w *Watcher) closeConn(notify bool) {
	if w.stopFn != nil {
		w.stopFn()
		w.stopFn = nil
	}
	if w.inPort != nil {
		_ = w.inPort.Close()
		w.inPort = nil
	}
	wasConnected := w.connected
	w.connected = false
	w.selectedName = ""
	if notify && wasConnected {
		w.out <- Message{Kind: Detached}
	}
}

func (w *Watcher) openByName(name string) error {
	ins, err := w.drv.Ins()
	if err != nil {
		return err
	}
	var found drivers.In
	for _, in := range ins {
		if in.String() == name {
			found = in
			break
		}
	}
	if found == nil {
		return fmt.Errorf("input %q not found", name)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}

	stop, err := midi.ListenTo(found, func(msg midi.Message, _ int32) {
		if ev, ok := decode(msg); ok {
			w.out <- Message{Kind: ControlEvent, Event: ev}
		} else {
			w.log.With(logger.Fields{"module": "midi"}).Debugf("unhandled message: %s", msg)
		}
	}, midi.HandleError(func(listenErr error) {
		w.log.With(logger.Fields{"module": "midi"}).Warnf("listener error on %q: %v", name, listenErr)
		// Must not tear down the connection from inside the listener
		// goroutine, so dispatch and re-acquire the mutex.
		go func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if w.connected && w.selectedName == name {
				w.closeConn(true)
				w.lastRescanAt = time.Time{}
			}
		}()
	}))
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("listen %q: %w", name, err)
	}

	w.inPort = found
	w.stopFn = stop
	w.connected = true
	w.selectedName = name
	w.log.With(logger.Fields{"module": "midi"}).Infof("connected to %s", name)
	w.out <- Message{Kind: Attached, Label: name}
	return nil
}

// decode maps a MIDI message to an engine event. A note end (note-off or
// note-on with velocity 0) becomes a note event with velocity 0; the mixer
// signals "stop" that way.
func decode(msg midi.Message) (engine.Event, bool) {
	var ch, p, v uint8
	switch {
	case msg.GetControlChange(&ch, &p, &v):
		return engine.Event{Type: engine.ControlChange, Param: int(p), Value: int(v)}, true
	case msg.GetNoteStart(&ch, &p, &v):
		return engine.Event{Type: engine.Note, Param: int(p), Value: int(v)}, true
	case msg.GetNoteEnd(&ch, &p):
		return engine.Event{Type: engine.Note, Param: int(p), Value: 0}, true
	}
	return engine.Event{}, false
}
