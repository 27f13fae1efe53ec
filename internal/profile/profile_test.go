package profile

import "testing"

func TestLookup(t *testing.T) {
	p, ok := Lookup("DJM-850")
	if !ok {
		t.Fatal("expected DJM-850 to be known")
	}
	if p.Channels != 4 || p.CrossFader != 11 || p.ChannelFaderBase != 17 || p.AssignBase != 65 {
		t.Fatalf("unexpected addresses: %+v", p)
	}
	if !p.HasSlopeControl() || p.SlopeControl != 94 {
		t.Fatalf("expected slope control 94, got %+v", p)
	}
	if !p.HasFaderStart() || p.FaderStartNote != 102 {
		t.Fatalf("expected fader start note 102, got %+v", p)
	}

	if _, ok := Lookup("DJM-9000"); ok {
		t.Fatal("expected unknown model to miss")
	}
}

func TestLookup_ModelsWithoutOptionalControls(t *testing.T) {
	p, ok := Lookup("DJM-450")
	if !ok {
		t.Fatal("expected DJM-450 to be known")
	}
	if p.Channels != 2 || p.HasSlopeControl() || p.HasFaderStart() {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		label string
		model string
		ok    bool
	}{
		{"DJM-450:DJM-450 MIDI 1 20:0", "DJM-450", true},
		{"DJM-750MK2:DJM-750MK2 MIDI 1 24:0", "DJM-750MK2", true},
		{"DJM-750 MIDI 1", "DJM-750", true},
		{"Midi Through Port-0", "", false},
	}

	for _, tc := range tests {
		p, ok := Detect(tc.label)
		if ok != tc.ok {
			t.Fatalf("Detect(%q) ok=%v, want %v", tc.label, ok, tc.ok)
		}
		if ok && p.Model != tc.model {
			t.Fatalf("Detect(%q) = %s, want %s", tc.label, p.Model, tc.model)
		}
	}
}
