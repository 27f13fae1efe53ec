// Package bridge is the dispatch loop: transport messages in, session-driven
// packets out to the broadcast sender, with an optional MQTT mirror.
package bridge

import (
	"context"

	"onairlink/internal/logger"
	"onairlink/internal/midiin"
	"onairlink/internal/session"
)

// Sender transmits one encoded packet.
type Sender interface {
	Send(pkt []byte) error
}

// Publisher mirrors the derived on-air state to a secondary consumer.
type Publisher interface {
	PublishOnAir(onair []bool)
}

// Bridge pulls watcher messages and drives the session.
type Bridge struct {
	log     logger.Logger
	session *session.Session
	sender  Sender
	pub     Publisher // may be nil
}

// New wires the dispatch loop. pub may be nil when no mirror is configured.
func New(log logger.Logger, sess *session.Session, sender Sender, pub Publisher) *Bridge {
	return &Bridge{
		log:     log,
		session: sess,
		sender:  sender,
		pub:     pub,
	}
}

// Start consumes messages until ctx is cancelled.
func (b *Bridge) Start(ctx context.Context, messages <-chan midiin.Message) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-messages:
				b.dispatch(m)
			}
		}
	}()
}

func (b *Bridge) dispatch(m midiin.Message) {
	switch m.Kind {
	case midiin.Attached:
		if err := b.session.Attach(m.Label); err != nil {
			b.log.With(logger.Fields{"module": "bridge"}).Warnf("attach rejected: %v", err)
		}

	case midiin.Detached:
		b.session.Detach()

	case midiin.ControlEvent:
		pkts := b.session.HandleEvent(m.Event)
		for _, pkt := range pkts {
			if err := b.sender.Send(pkt); err != nil {
				b.log.With(logger.Fields{"module": "bridge"}).Errorf("send failed: %v", err)
			}
		}
		if len(pkts) > 0 && b.pub != nil {
			b.pub.PublishOnAir(b.session.OnAir())
		}
	}
}
