package device

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/loupekit/internal/logging"
	"github.com/muurk/loupekit/internal/protocol"
)

// onButton decodes a BUTTON_PRESS payload: button code, then 0x00 for down
// or anything else for up.
func (d *Device) onButton(payload []byte) (any, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("button payload too short: %d bytes", len(payload))
	}
	name, ok := protocol.ButtonName(payload[0])
	if !ok {
		return nil, fmt.Errorf("unknown button code 0x%02x", payload[0])
	}
	ev := ButtonEvent{Time: time.Now(), Key: name, Down: payload[1] == 0x00}
	d.emit(ev)
	return ev, nil
}

// onRotate decodes a KNOB_ROTATE payload: knob code, then 0x01 for a
// clockwise detent.
func (d *Device) onRotate(payload []byte) (any, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("rotate payload too short: %d bytes", len(payload))
	}
	name, ok := protocol.ButtonName(payload[0])
	if !ok {
		return nil, fmt.Errorf("unknown knob code 0x%02x", payload[0])
	}
	dir := RotateLeft
	if payload[1] == 0x01 {
		dir = RotateRight
	}
	ev := KnobEvent{Time: time.Now(), Key: name, Direction: dir}
	d.emit(ev)
	return ev, nil
}

// onSerial records the serial number and releases the one-shot readiness
// signal Connect waits on.
func (d *Device) onSerial(payload []byte) (any, error) {
	serial := strings.TrimSpace(string(payload))
	d.mu.Lock()
	d.serial = serial
	d.mu.Unlock()
	d.serialOnce.Do(func() { close(d.serialGot) })

	ev := SerialInfoEvent{Time: time.Now(), Serial: serial}
	d.emit(ev)
	return ev, nil
}

// onVersion records the firmware version from its three byte components.
func (d *Device) onVersion(payload []byte) (any, error) {
	if len(payload) < 3 {
		return nil, fmt.Errorf("version payload too short: %d bytes", len(payload))
	}
	version := fmt.Sprintf("%d.%d.%d", payload[0], payload[1], payload[2])
	d.mu.Lock()
	d.version = version
	d.mu.Unlock()

	ev := VersionInfoEvent{Time: time.Now(), Version: version}
	d.emit(ev)
	return ev, nil
}

// onTick handles the periodic keepalive the firmware emits.
func (d *Device) onTick(payload []byte) (any, error) {
	logging.Debug("tick", zap.String("path", d.path), zap.Int("len", len(payload)))
	return payload, nil
}

// onTouch decodes a TOUCH payload: one reserved byte, x and y as
// big-endian uint16s, then the touch id. Whether it is a start or a
// continuation depends on whether the id is already active.
func (d *Device) onTouch(payload []byte) (any, error) {
	return d.decodeTouch(payload, TouchMove)
}

func (d *Device) onTouchEnd(payload []byte) (any, error) {
	return d.decodeTouch(payload, TouchEnd)
}

func (d *Device) decodeTouch(payload []byte, kind TouchKind) (any, error) {
	if len(payload) < 6 {
		return nil, fmt.Errorf("touch payload too short: %d bytes", len(payload))
	}
	x := binary.BigEndian.Uint16(payload[1:3])
	y := binary.BigEndian.Uint16(payload[3:5])
	id := payload[5]

	region, key := locateTouch(x, y)
	ev := TouchEvent{
		Time:   time.Now(),
		Kind:   kind,
		ID:     id,
		Region: region,
		Key:    key,
		X:      x,
		Y:      y,
	}

	// The panel only reports moves and ends; a move for an unseen id is
	// the start of that touch.
	if kind == TouchMove {
		if _, active := d.touches[id]; !active {
			ev.Kind = TouchStart
			d.touches[id] = ev
		}
	} else {
		delete(d.touches, id)
	}

	d.emit(ev)
	return ev, nil
}

// locateTouch maps a global touch coordinate onto a display region and,
// within the center region, onto a key index. Key indices only apply to
// the center grid.
func locateTouch(x, y uint16) (string, int) {
	left := protocol.Regions[protocol.RegionLeft]
	right := protocol.Regions[protocol.RegionRight]

	switch {
	case int(x) < left.Width:
		return protocol.RegionLeft, KeyNone
	case int(x) > right.XOffset:
		return protocol.RegionRight, KeyNone
	}

	center := protocol.Regions[protocol.RegionCenter]
	column := (int(x) - center.XOffset) / protocol.KeyWidth
	row := int(y) / protocol.KeyHeight
	return protocol.RegionCenter, row*protocol.KeyColumns + column
}
