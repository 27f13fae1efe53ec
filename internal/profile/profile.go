// Package profile holds the per-model control address maps of the supported
// Pioneer DJM mixers. Pure data, selected once per attached device.
package profile

import "strings"

// None marks an address a model does not have.
const None = -1

// Profile describes the control surface layout of one mixer model.
type Profile struct {
	Model    string // Model - the identity reported by the MIDI transport.
	Channels int    // Channels - number of channel faders (2 or 4).

	CrossFader       int // CrossFader - cross-fader control address.
	ChannelFaderBase int // ChannelFaderBase - first channel fader address; channels follow contiguously.
	AssignBase       int // AssignBase - first cross-fader assign address. 2-channel models expose a single reverse control here.
	SlopeControl     int // SlopeControl - channel fader curve selector, None when absent.
	FaderStartNote   int // FaderStartNote - first fader-start button note, None when absent.
}

// HasSlopeControl reports whether the model has a fader curve selector.
func (p Profile) HasSlopeControl() bool { return p.SlopeControl != None }

// HasFaderStart reports whether the model has fader-start buttons.
func (p Profile) HasFaderStart() bool { return p.FaderStartNote != None }

// Ordered so Detect prefers the longest model name: "DJM-750" is a prefix of
// "DJM-750MK2" and must not shadow it.
var profiles = []Profile{
	{Model: "DJM-750MK2", Channels: 4, CrossFader: 0x0B, ChannelFaderBase: 0x11, AssignBase: 0x41, SlopeControl: 0x5E, FaderStartNote: None},
	{Model: "DJM-250MK2", Channels: 2, CrossFader: 0x0B, ChannelFaderBase: 0x11, AssignBase: 0x60, SlopeControl: None, FaderStartNote: None},
	{Model: "DJM-450", Channels: 2, CrossFader: 0x0B, ChannelFaderBase: 0x11, AssignBase: 0x60, SlopeControl: None, FaderStartNote: None},
	{Model: "DJM-750", Channels: 4, CrossFader: 11, ChannelFaderBase: 17, AssignBase: 65, SlopeControl: 94, FaderStartNote: None},
	{Model: "DJM-850", Channels: 4, CrossFader: 11, ChannelFaderBase: 17, AssignBase: 65, SlopeControl: 94, FaderStartNote: 102},
}

// Lookup returns the profile for an exact model identifier.
func Lookup(model string) (Profile, bool) {
	for _, p := range profiles {
		if p.Model == model {
			return p, true
		}
	}
	return Profile{}, false
}

// Detect matches a transport-reported port label ("DJM-450:DJM-450 MIDI 1")
// against the table. The longest matching model name wins.
func Detect(label string) (Profile, bool) {
	var best Profile
	found := false
	for _, p := range profiles {
		if strings.Contains(label, p.Model) && (!found || len(p.Model) > len(best.Model)) {
			best = p
			found = true
		}
	}
	return best, found
}
