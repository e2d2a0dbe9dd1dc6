package main

import (
	"testing"

	"github.com/muurk/loupekit/internal/config"
	"github.com/muurk/loupekit/internal/device"
	"github.com/muurk/loupekit/internal/protocol"
)

// recordingTransport satisfies device.Transport and keeps every write.
type recordingTransport struct {
	writes [][]byte
}

func (r *recordingTransport) Read() ([]byte, error)     { return nil, nil }
func (r *recordingTransport) ReadLine() ([]byte, error) { return nil, nil }

func (r *recordingTransport) Write(p []byte) error {
	cp := make([]byte, len(p))
	copy(cp, p)
	r.writes = append(r.writes, cp)
	return nil
}

func TestApplyPreferences(t *testing.T) {
	rt := &recordingTransport{}
	d := device.New("test", rt)

	registry := config.NewRegistry()
	registry.Preferences.DefaultBrightness = 80
	applyPreferences(d, registry)

	if len(rt.writes) != 1 {
		t.Fatalf("wrote %d commands, want 1", len(rt.writes))
	}
	out := rt.writes[0]
	if op := protocol.Opcode(uint16(out[6])<<8 | uint16(out[7])); op != protocol.OpSetBrightness {
		t.Fatalf("opcode = %s, want SET_BRIGHTNESS", op.Name())
	}
	if got := out[9]; got != 8 {
		t.Errorf("brightness level = %d, want 8", got)
	}
}

func TestApplyPreferencesNilRegistry(t *testing.T) {
	rt := &recordingTransport{}
	d := device.New("test", rt)

	applyPreferences(d, nil)
	applyPreferences(d, &config.Registry{Version: 1})

	if len(rt.writes) != 0 {
		t.Errorf("wrote %d commands with no preferences, want 0", len(rt.writes))
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		r, g, b uint8
		wantErr bool
	}{
		{name: "plain triplet", in: "ff8800", r: 0xFF, g: 0x88, b: 0x00},
		{name: "hash prefix", in: "#102030", r: 0x10, g: 0x20, b: 0x30},
		{name: "too short", in: "fff", wantErr: true},
		{name: "not hex", in: "zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, err := parseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("parseHexColor(%q) = %d,%d,%d, want %d,%d,%d",
					tt.in, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}
