// Package engine derives per-channel on-air state and fader-start
// transitions from raw mixer control events. One instance per attached
// device; all state is owned here and mutated by HandleEvent only.
package engine

import (
	"bytes"

	"onairlink/internal/logger"
	"onairlink/internal/prodjlink"
	"onairlink/internal/profile"
)

const (
	// faderThreshold is the level above which a channel fader counts as
	// open. lowSlopeThreshold replaces it while the fader curve selector
	// sits in its low position.
	faderThreshold    = 1
	lowSlopeThreshold = 2

	centerValue = 64
	maxValue    = 127
)

// Side is the cross-fader region the knob currently sits in.
type Side uint8

const (
	// SideBoth - the cross-fader is away from either end stop; it is not
	// decisive and every channel passes the gate.
	SideBoth Side = iota
	// SideA - hard left.
	SideA
	// SideB - hard right.
	SideB
)

// Engine is the fader state machine for one mixer.
type Engine struct {
	log        logger.Logger
	prof       profile.Profile
	deviceName string

	xfaderValue int
	xfaderSide  Side
	assign      []int
	faderValue  []int
	onairFader  []bool
	threshold   int

	lastOnAirPkt      []byte
	lastFaderStartPkt []byte

	prevEvent Event
	hasPrev   bool
}

// New builds an engine at its construction defaults: faders down, assigns
// centered, cross-fader centered, default threshold.
func New(log logger.Logger, prof profile.Profile, deviceName string) *Engine {
	e := &Engine{
		log:         log,
		prof:        prof,
		deviceName:  deviceName,
		xfaderValue: centerValue,
		xfaderSide:  SideBoth,
		assign:      make([]int, prof.Channels),
		faderValue:  make([]int, prof.Channels),
		onairFader:  make([]bool, prof.Channels),
		threshold:   faderThreshold,
	}
	for i := range e.assign {
		e.assign[i] = centerValue
	}
	if prodjlink.NameTruncated(deviceName) {
		log.With(logger.Fields{"module": "engine"}).
			Warnf("device name %q truncated to %d bytes on the wire", deviceName, prodjlink.MaxDeviceNameLen)
	}
	return e
}

// Profile returns the profile the engine was built for.
func (e *Engine) Profile() profile.Profile { return e.prof }

// OnAir returns the current derived on-air vector.
func (e *Engine) OnAir() []bool {
	onair := make([]bool, e.prof.Channels)
	for i := range onair {
		onair[i] = e.onairFader[i] && e.xfaderGate(i)
	}
	return onair
}

// HandleEvent feeds one event through the state machine and returns the
// packets whose content changed: at most one fader-start packet followed by
// at most one on-air packet. Unrecognized addresses and notes are inert.
func (e *Engine) HandleEvent(ev Event) [][]byte {
	// The very first event has no predecessor; it stands in for itself so
	// the fader-start correlation below always has something to look at.
	if !e.hasPrev {
		e.prevEvent = ev
		e.hasPrev = true
	}

	var out [][]byte
	sendOnAir := true

	switch {
	case ev.Type == ControlChange && ev.Param == e.prof.CrossFader:
		e.moveCrossFader(ev.Value)

	case ev.Type == ControlChange && inRange(ev.Param, e.prof.ChannelFaderBase, e.prof.Channels):
		e.moveChannelFader(ev.Param-e.prof.ChannelFaderBase, ev.Value)

	case ev.Type == ControlChange && inRange(ev.Param, e.prof.AssignBase, e.prof.Channels):
		e.setAssign(ev.Param-e.prof.AssignBase, ev.Value)

	case ev.Type == ControlChange && e.prof.HasSlopeControl() && ev.Param == e.prof.SlopeControl:
		e.setSlope(ev.Value)

	case ev.Type == Note && e.prof.HasFaderStart() && inRange(ev.Param, e.prof.FaderStartNote, e.prof.Channels):
		if pkt := e.pressFaderStart(ev); pkt != nil {
			out = append(out, pkt)
		}

	default:
		sendOnAir = false
	}

	if sendOnAir {
		if pkt := e.refreshOnAir(); pkt != nil {
			out = append(out, pkt)
		}
	}

	e.prevEvent = ev
	return out
}

// moveCrossFader classifies the new position into a side with a one-step
// hysteresis band that widens against the direction of travel, so a knob
// resting on the boundary does not flicker between sides.
func (e *Engine) moveCrossFader(value int) {
	switch {
	case value <= faderThreshold-btoi(value > e.xfaderValue):
		e.xfaderSide = SideA
	case value >= maxValue-(faderThreshold-btoi(value < e.xfaderValue)):
		e.xfaderSide = SideB
	default:
		e.xfaderSide = SideBoth
	}
	e.xfaderValue = value
}

func (e *Engine) moveChannelFader(ch, value int) {
	directionDown := value < e.faderValue[ch]
	e.faderValue[ch] = value
	e.updateOnAirFader(directionDown, e.threshold, ch)
}

// setAssign records a cross-fader assignment. 2-channel mixers expose one
// reverse control driving both channels symmetrically.
func (e *Engine) setAssign(ch, value int) {
	if e.prof.Channels == 2 {
		e.assign[0] = value
		e.assign[1] = maxValue - value
		return
	}
	e.assign[ch] = value
}

// setSlope switches the fader threshold with the curve selector and, on a
// change, re-derives every channel against the new threshold.
func (e *Engine) setSlope(value int) {
	newThreshold := faderThreshold
	if value < centerValue {
		newThreshold = lowSlopeThreshold
	}

	if newThreshold != e.threshold {
		for ch := 0; ch < e.prof.Channels; ch++ {
			e.updateOnAirFader(newThreshold > e.threshold, newThreshold, ch)
		}
	}
	e.threshold = newThreshold
}

// updateOnAirFader re-derives one channel's fader gate. Moving down raises
// the effective threshold by one, giving the dead-zone that keeps a fader
// hovering at the threshold from toggling on every jitter.
func (e *Engine) updateOnAirFader(directionDown bool, threshold, ch int) {
	e.onairFader[ch] = e.faderValue[ch] >= threshold+btoi(directionDown)
}

// pressFaderStart handles a fader-start button note. Returns the fader-start
// packet if it differs from the last one sent, nil otherwise; the cache is
// updated either way.
func (e *Engine) pressFaderStart(ev Event) []byte {
	ch := ev.Param - e.prof.FaderStartNote
	stop := ev.Value == 0

	pkt := prodjlink.FaderStartPacket(e.deviceName, ch, stop)
	var emit []byte
	if !bytes.Equal(pkt, e.lastFaderStartPkt) {
		state := "PLAY"
		if stop {
			state = "STOP"
		}
		e.log.With(logger.Fields{"module": "engine"}).Debugf("Fader Start CH%d: %s", ch+1, state)
		emit = pkt
	}
	e.lastFaderStartPkt = pkt

	// The control surface emits a fader or cross-fader move immediately
	// before the button note when the user is mid-gesture; that preceding
	// event tells us which side the channel was just assigned to.
	if e.prevEvent.Type == ControlChange {
		switch {
		case e.prevEvent.Param == e.prof.CrossFader:
			if e.prevEvent.Value >= centerValue {
				e.assign[ch] = 0
			} else {
				e.assign[ch] = maxValue
			}
		case inRange(e.prevEvent.Param, e.prof.ChannelFaderBase, e.prof.Channels):
			e.assign[ch] = centerValue
		}
	}
	return emit
}

// refreshOnAir encodes the current on-air vector and returns the packet if
// it differs from the last one sent, nil otherwise.
func (e *Engine) refreshOnAir() []byte {
	onair := e.OnAir()
	pkt := prodjlink.OnAirPacket(e.deviceName, onair)
	var emit []byte
	if !bytes.Equal(pkt, e.lastOnAirPkt) {
		e.log.With(logger.Fields{"module": "engine"}).Debugf("On Air Channels Status: %v", onair)
		emit = pkt
	}
	e.lastOnAirPkt = pkt
	return emit
}

// xfaderGate reports whether the cross-fader configuration leaves channel ch
// audible.
func (e *Engine) xfaderGate(ch int) bool {
	switch e.xfaderSide {
	case SideA:
		return e.assign[ch] <= centerValue
	case SideB:
		return e.assign[ch] >= centerValue
	default:
		return true
	}
}

func inRange(v, base, count int) bool {
	return base != profile.None && v >= base && v < base+count
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
