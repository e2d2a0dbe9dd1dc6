package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeShortHeader(t *testing.T) {
	tests := []struct {
		name          string
		opcode        Opcode
		transactionID uint8
		data          []byte
	}{
		{
			name:          "brightness command",
			opcode:        OpSetBrightness,
			transactionID: 1,
			data:          []byte{0x05},
		},
		{
			name:          "no data",
			opcode:        OpSerialOut,
			transactionID: 7,
			data:          nil,
		},
		{
			name:          "payload just under the short limit",
			opcode:        OpSetColor,
			transactionID: 255,
			data:          bytes.Repeat([]byte{0xAA}, MaxShortPayload-4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Encode(tt.opcode, tt.transactionID, tt.data)

			payloadLen := 3 + len(tt.data)
			if len(out) != 6+payloadLen {
				t.Fatalf("encoded length = %d, want %d", len(out), 6+payloadLen)
			}
			if out[0] != Marker {
				t.Errorf("out[0] = %#x, want marker %#x", out[0], Marker)
			}
			if out[1] != 0x80+byte(payloadLen) {
				t.Errorf("out[1] = %#x, want %#x", out[1], 0x80+byte(payloadLen))
			}
			for i := 2; i < 6; i++ {
				if out[i] != 0 {
					t.Errorf("out[%d] = %#x, want 0", i, out[i])
				}
			}
			if got := binary.BigEndian.Uint16(out[6:8]); Opcode(got) != tt.opcode {
				t.Errorf("opcode = %#x, want %#x", got, uint16(tt.opcode))
			}
			if out[8] != tt.transactionID {
				t.Errorf("transaction id = %d, want %d", out[8], tt.transactionID)
			}
			if !bytes.Equal(out[9:], tt.data) {
				t.Errorf("data = %v, want %v", out[9:], tt.data)
			}
		})
	}
}

func TestEncodeLongHeader(t *testing.T) {
	data := bytes.Repeat([]byte{0x5A}, 60*270*2)
	out := Encode(OpWriteFramebuff, 3, data)

	payloadLen := 3 + len(data)
	if len(out) != 14+payloadLen {
		t.Fatalf("encoded length = %d, want %d", len(out), 14+payloadLen)
	}
	if out[0] != Marker || out[1] != 0xFF {
		t.Errorf("header prefix = %#x %#x, want %#x 0xff", out[0], out[1], Marker)
	}
	for _, i := range []int{2, 3, 4, 5, 10, 11, 12, 13} {
		if out[i] != 0 {
			t.Errorf("out[%d] = %#x, want 0", i, out[i])
		}
	}
	if got := binary.BigEndian.Uint32(out[6:10]); got != uint32(payloadLen) {
		t.Errorf("length field = %d, want %d", got, payloadLen)
	}
	if got := binary.BigEndian.Uint16(out[14:16]); Opcode(got) != OpWriteFramebuff {
		t.Errorf("opcode = %#x, want WRITE_FRAMEBUFF", got)
	}
	if out[16] != 3 {
		t.Errorf("transaction id = %d, want 3", out[16])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// Reframe an encoded message with the inbound length convention and
	// push it back through the Reassembler: the decoded frame must match
	// what was encoded.
	payloads := [][]byte{
		nil,
		{0x01},
		{0x00, 0x4D, 0x00, 0x3C, 0x00, 0x10, 0x00, 0x10},
		bytes.Repeat([]byte{0x42}, MaxShortPayload-4),
	}

	for _, data := range payloads {
		out := Encode(OpDraw, 9, data)
		msg := out[6:]

		var r Reassembler
		wire := append([]byte{Marker, byte(len(msg))}, msg...)
		frames := r.Feed(wire)
		if len(frames) != 1 {
			t.Fatalf("len(data)=%d: got %d frames, want 1", len(data), len(frames))
		}

		f, err := DecodeFrame(frames[0])
		if err != nil {
			t.Fatalf("len(data)=%d: DecodeFrame() error = %v", len(data), err)
		}
		if f.Opcode != OpDraw {
			t.Errorf("len(data)=%d: opcode = %s, want DRAW", len(data), f.Opcode.Name())
		}
		if f.TransactionID != 9 {
			t.Errorf("len(data)=%d: transaction id = %d, want 9", len(data), f.TransactionID)
		}
		if !bytes.Equal(f.Payload, data) {
			t.Errorf("len(data)=%d: payload mismatch", len(data))
		}
	}
}

func TestOpcodeName(t *testing.T) {
	if got := OpButtonPress.Name(); got != "BUTTON_PRESS" {
		t.Errorf("Name() = %q, want BUTTON_PRESS", got)
	}
	if got := Opcode(0xBEEF).Name(); got != "Unknown(0xBEEF)" {
		t.Errorf("Name() = %q, want Unknown(0xBEEF)", got)
	}
}
