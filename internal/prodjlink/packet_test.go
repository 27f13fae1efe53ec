package prodjlink

import (
	"bytes"
	"strings"
	"testing"
)

func TestOnAirPacket_Layout(t *testing.T) {
	pkt := OnAirPacket("On Air Link", []bool{true, false})

	want := append([]byte{}, header...)
	want = append(want, 0x03)
	name := make([]byte, 20)
	copy(name, "On Air Link")
	want = append(want, name...)
	want = append(want, 0x01, 0x00, 0x00, 0x00, 0x09)
	want = append(want, 1, 0)
	want = append(want, 0, 0, 0, 0, 0)

	if !bytes.Equal(pkt, want) {
		t.Fatalf("packet mismatch\n got %x\nwant %x", pkt, want)
	}
}

func TestOnAirPacket_ChannelRegionScalesWithCount(t *testing.T) {
	two := OnAirPacket("x", []bool{false, false})
	four := OnAirPacket("x", []bool{false, false, false, false})

	if len(four)-len(two) != 2 {
		t.Fatalf("expected 2 extra bytes for 4 channels, got %d", len(four)-len(two))
	}
}

func TestFaderStartPacket_TriState(t *testing.T) {
	pkt := FaderStartPacket("On Air Link", 2, true)

	if len(pkt) != 40 {
		t.Fatalf("expected 40 bytes, got %d", len(pkt))
	}
	if pkt[10] != 0x02 {
		t.Fatalf("expected type byte 0x02, got %#x", pkt[10])
	}

	state := pkt[len(pkt)-4:]
	for i, v := range state {
		want := byte(FaderStartUnchanged)
		if i == 2 {
			want = FaderStartStop
		}
		if v != want {
			t.Fatalf("state[%d] = %d, want %d", i, v, want)
		}
	}

	play := FaderStartPacket("On Air Link", 0, false)
	if play[len(play)-4] != FaderStartPlay {
		t.Fatalf("expected play marker, got %d", play[len(play)-4])
	}
}

func TestDeviceNameTruncation(t *testing.T) {
	long := strings.Repeat("a", 25)
	short := "dj"

	if !NameTruncated(long) {
		t.Fatalf("expected %q to be reported as truncated", long)
	}
	if NameTruncated(short) {
		t.Fatalf("did not expect %q to be reported as truncated", short)
	}

	lp := OnAirPacket(long, []bool{true})
	sp := OnAirPacket(short, []bool{true})
	if len(lp) != len(sp) {
		t.Fatalf("packet length must not depend on name length: %d vs %d", len(lp), len(sp))
	}
	if !bytes.Equal(lp[11:31], []byte(long[:20])) {
		t.Fatalf("name field mismatch: %q", lp[11:31])
	}
}
