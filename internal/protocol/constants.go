package protocol

import (
	"fmt"
	"time"
)

// Serial link parameters for the Loupedeck Live.
const (
	DefaultBaudRate = 460800
	ReadTimeout     = 1 * time.Second
)

// Framing constants.
const (
	// Marker delimits every message on the wire.
	Marker = 0x82

	// MaxShortPayload is the largest message that fits the 6-byte header.
	MaxShortPayload = 0x80

	shortHeaderSize = 6
	longHeaderSize  = 14
)

// Opcode identifies a command or response type. The high byte loosely
// tracks the expected payload length, the low byte the action.
type Opcode uint16

// Opcodes observed in live captures.
const (
	OpConfirm          Opcode = 0x0302
	OpSerialOut        Opcode = 0x0303 // request serial number
	OpVersionOut       Opcode = 0x0307 // request firmware version
	OpTick             Opcode = 0x0400
	OpSetBrightness    Opcode = 0x0409
	OpConfirmFramebuff Opcode = 0x0410
	OpSetVibration     Opcode = 0x041B
	OpButtonPress      Opcode = 0x0500
	OpKnobRotate       Opcode = 0x0501
	OpReset            Opcode = 0x0506
	OpDraw             Opcode = 0x050F
	OpSetColor         Opcode = 0x0702
	OpTouch            Opcode = 0x094D
	OpTouchEnd         Opcode = 0x096D
	OpVersionIn        Opcode = 0x0C07 // firmware version reply
	OpMCU              Opcode = 0x180D
	OpSerialIn         Opcode = 0x1F03 // serial number reply
	OpWriteFramebuff   Opcode = 0xFF10
)

// Name returns a human-readable opcode name.
func (o Opcode) Name() string {
	switch o {
	case OpConfirm:
		return "CONFIRM"
	case OpSerialOut:
		return "SERIAL_OUT"
	case OpVersionOut:
		return "VERSION_OUT"
	case OpTick:
		return "TICK"
	case OpSetBrightness:
		return "SET_BRIGHTNESS"
	case OpConfirmFramebuff:
		return "CONFIRM_FRAMEBUFF"
	case OpSetVibration:
		return "SET_VIBRATION"
	case OpButtonPress:
		return "BUTTON_PRESS"
	case OpKnobRotate:
		return "KNOB_ROTATE"
	case OpReset:
		return "RESET"
	case OpDraw:
		return "DRAW"
	case OpSetColor:
		return "SET_COLOR"
	case OpTouch:
		return "TOUCH"
	case OpTouchEnd:
		return "TOUCH_END"
	case OpVersionIn:
		return "VERSION_IN"
	case OpMCU:
		return "MCU"
	case OpSerialIn:
		return "SERIAL_IN"
	case OpWriteFramebuff:
		return "WRITE_FRAMEBUFF"
	default:
		return fmt.Sprintf("Unknown(0x%04X)", uint16(o))
	}
}

// Buttons maps device button codes to their names. Codes 0x01-0x06 are the
// push switches under the six rotary knobs, 0x07 is the round button, and
// 0x08-0x0E are the numbered buttons along the bottom.
var Buttons = map[byte]string{
	0x01: "knobTL",
	0x02: "knobCL",
	0x03: "knobBL",
	0x04: "knobTR",
	0x05: "knobCR",
	0x06: "knobBR",
	0x07: "circle",
	0x08: "1",
	0x09: "2",
	0x0A: "3",
	0x0B: "4",
	0x0C: "5",
	0x0D: "6",
	0x0E: "7",
}

// ButtonCode returns the device code for a named button.
func ButtonCode(name string) (byte, bool) {
	for code, n := range Buttons {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// ButtonName returns the name for a device button code.
func ButtonName(code byte) (string, bool) {
	name, ok := Buttons[code]
	return name, ok
}

// Haptics maps vibration pattern names to the byte the firmware expects.
var Haptics = map[string]byte{
	"SHORT":        0x01,
	"MEDIUM":       0x0A,
	"LONG":         0x0F,
	"LOW":          0x31,
	"SHORT_LOW":    0x32,
	"SHORT_LOWER":  0x33,
	"LOWER":        0x40,
	"LOWEST":       0x41,
	"DESCEND_SLOW": 0x46,
	"DESCEND_MED":  0x47,
	"DESCEND_FAST": 0x48,
	"ASCEND_SLOW":  0x52,
	"ASCEND_MED":   0x53,
	"ASCEND_FAST":  0x58,
	"REV_SLOWEST":  0x5E,
	"REV_SLOW":     0x5F,
	"REV_MED":      0x60,
	"REV_FAST":     0x61,
	"REV_FASTER":   0x62,
	"REV_FASTEST":  0x63,
	"RISE_FALL":    0x6A,
	"BUZZ":         0x70,
	"RUMBLE5":      0x77,
	"RUMBLE4":      0x78,
	"RUMBLE3":      0x79,
	"RUMBLE2":      0x7A,
	"RUMBLE1":      0x7B,
	"VERY_LONG":    0x76, // 10 seconds of high frequency
}

// Region names.
const (
	RegionLeft   = "left"
	RegionCenter = "center"
	RegionRight  = "right"
)

// Region describes one addressable display area of the device.
type Region struct {
	Name string
	// ID is the device-side identifier sent in DRAW and WRITE_FRAMEBUFF
	// payloads.
	ID []byte
	// Width and Height are the region dimensions in pixels.
	Width  int
	Height int
	// XOffset translates region-local x coordinates into device-global
	// framebuffer coordinates.
	XOffset int
}

// Regions is the fixed set of display areas. The panel is one 480x270
// framebuffer split into a left strip, a 4x3 key grid in the center, and a
// right strip.
var Regions = map[string]Region{
	RegionLeft:   {Name: RegionLeft, ID: []byte{0x00, 'M'}, Width: 60, Height: 270, XOffset: 0},
	RegionCenter: {Name: RegionCenter, ID: []byte{0x00, 'M'}, Width: 360, Height: 270, XOffset: 60},
	RegionRight:  {Name: RegionRight, ID: []byte{0x00, 'M'}, Width: 60, Height: 270, XOffset: 420},
}

// Key grid geometry of the center region.
const (
	KeyColumns = 4
	KeyRows    = 3
	KeyWidth   = 90
	KeyHeight  = 90
)

// Handshake bytes. The firmware expects a websocket-style HTTP upgrade on
// the serial line before it starts framing; anything else leaves it mute,
// which doubles as device-type detection.
var (
	UpgradeRequest = []byte("GET /index.html\nHTTP/1.1\nConnection: Upgrade\nUpgrade: websocket\nSec-WebSocket-Key: 123abc\n\n")

	UpgradeResponseLines = [][]byte{
		[]byte("HTTP/1.1 101 Switching Protocols\r\n"),
		[]byte("Upgrade: websocket\r\n"),
		[]byte("Connection: Upgrade\r\n"),
		[]byte("Sec-WebSocket-Accept: ALtlZo9FMEUEQleXJmq++ukUQ1s=\r\n"),
		[]byte("\r\n"),
	}
)

// Brightness scale. Callers pass 0-100; the device wants 0-10.
const MaxBrightness = 10
