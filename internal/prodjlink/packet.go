// Package prodjlink builds the Pro DJ Link status packets consumed by
// Pioneer lighting and display hardware. Packet builders are pure: they
// never fail and never touch the network.
package prodjlink

// header identifies every Pro DJ Link packet.
var header = []byte{0x51, 0x73, 0x70, 0x74, 0x31, 0x57, 0x6d, 0x4a, 0x4f, 0x4c}

const (
	typeFaderStart = 0x02
	typeOnAir      = 0x03

	// MaxDeviceNameLen is the fixed width of the device name field.
	MaxDeviceNameLen = 20

	// Port is the UDP port the hardware listens on.
	Port = 50001

	// faderStartChannels is the fixed width of the tri-state array in a
	// fader-start packet. Protocol-mandated, independent of the mixer's
	// channel count.
	faderStartChannels = 4

	// Tri-state values carried per channel in a fader-start packet.
	FaderStartPlay      = 0
	FaderStartStop      = 1
	FaderStartUnchanged = 2
)

// NameTruncated reports whether name will not fit the 20-byte field.
func NameTruncated(name string) bool {
	return len(name) > MaxDeviceNameLen
}

// formatDeviceName pads or truncates name to exactly MaxDeviceNameLen bytes.
func formatDeviceName(name string) []byte {
	buf := make([]byte, MaxDeviceNameLen)
	copy(buf, name)
	return buf
}

// OnAirPacket encodes the per-channel on-air state.
func OnAirPacket(deviceName string, onair []bool) []byte {
	pkt := make([]byte, 0, len(header)+1+MaxDeviceNameLen+5+len(onair)+5)
	pkt = append(pkt, header...)
	pkt = append(pkt, typeOnAir)
	pkt = append(pkt, formatDeviceName(deviceName)...)
	pkt = append(pkt, 0x01, 0x00, 0x00, 0x00, 0x09)
	for _, on := range onair {
		if on {
			pkt = append(pkt, 1)
		} else {
			pkt = append(pkt, 0)
		}
	}
	pkt = append(pkt, 0, 0, 0, 0, 0)
	return pkt
}

// FaderStartPacket encodes a play/stop transition for one channel. All other
// channels carry FaderStartUnchanged so the receiver keeps their state.
func FaderStartPacket(deviceName string, channel int, stop bool) []byte {
	state := [faderStartChannels]byte{
		FaderStartUnchanged, FaderStartUnchanged, FaderStartUnchanged, FaderStartUnchanged,
	}
	if stop {
		state[channel] = FaderStartStop
	} else {
		state[channel] = FaderStartPlay
	}

	pkt := make([]byte, 0, len(header)+1+MaxDeviceNameLen+5+faderStartChannels)
	pkt = append(pkt, header...)
	pkt = append(pkt, typeFaderStart)
	pkt = append(pkt, formatDeviceName(deviceName)...)
	pkt = append(pkt, 0x01, 0x00, 0x00, 0x00, 0x04)
	pkt = append(pkt, state[:]...)
	return pkt
}
