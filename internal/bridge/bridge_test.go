package bridge

import (
	"testing"

	"onairlink/internal/config"
	"onairlink/internal/engine"
	"onairlink/internal/logger"
	"onairlink/internal/midiin"
	"onairlink/internal/session"
)

type fakeSender struct {
	sent [][]byte
}

func (f *fakeSender) Send(pkt []byte) error {
	f.sent = append(f.sent, pkt)
	return nil
}

type fakePublisher struct {
	published [][]bool
}

func (f *fakePublisher) PublishOnAir(onair []bool) {
	f.published = append(f.published, onair)
}

func testBridge(t *testing.T) (*Bridge, *fakeSender, *fakePublisher) {
	t.Helper()
	log, err := logger.NewLogger(config.LogConf{Level: "panic"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	sender := &fakeSender{}
	pub := &fakePublisher{}
	sess := session.New(log, "On Air Link")
	return New(log, sess, sender, pub), sender, pub
}

func TestDispatch(t *testing.T) {
	b, sender, pub := testBridge(t)

	b.dispatch(midiin.Message{Kind: midiin.Attached, Label: "DJM-450:DJM-450 MIDI 1"})
	b.dispatch(midiin.Message{
		Kind:  midiin.ControlEvent,
		Event: engine.Event{Type: engine.ControlChange, Param: 0x11, Value: 5},
	})

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 packet sent, got %d", len(sender.sent))
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(pub.published))
	}
	if got := pub.published[0]; len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("published on-air = %v, want [true false]", got)
	}

	// Same event again: nothing changes, nothing is sent or published.
	b.dispatch(midiin.Message{
		Kind:  midiin.ControlEvent,
		Event: engine.Event{Type: engine.ControlChange, Param: 0x11, Value: 5},
	})
	if len(sender.sent) != 1 || len(pub.published) != 1 {
		t.Fatalf("duplicate event produced output: %d sent, %d published", len(sender.sent), len(pub.published))
	}
}

func TestDispatchWhileDetached(t *testing.T) {
	b, sender, _ := testBridge(t)

	b.dispatch(midiin.Message{Kind: midiin.Attached, Label: "DJM-450:DJM-450 MIDI 1"})
	b.dispatch(midiin.Message{Kind: midiin.Detached})
	b.dispatch(midiin.Message{
		Kind:  midiin.ControlEvent,
		Event: engine.Event{Type: engine.ControlChange, Param: 0x11, Value: 5},
	})

	if len(sender.sent) != 0 {
		t.Fatalf("expected no packets while detached, got %d", len(sender.sent))
	}
}

func TestDispatchUnsupportedLabel(t *testing.T) {
	b, sender, _ := testBridge(t)

	b.dispatch(midiin.Message{Kind: midiin.Attached, Label: "Midi Through Port-0"})
	b.dispatch(midiin.Message{
		Kind:  midiin.ControlEvent,
		Event: engine.Event{Type: engine.ControlChange, Param: 0x11, Value: 5},
	})

	if len(sender.sent) != 0 {
		t.Fatalf("expected no packets without a profile, got %d", len(sender.sent))
	}
}
