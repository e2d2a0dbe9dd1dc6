package device

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"strconv"

	"go.uber.org/zap"

	"github.com/muurk/loupekit/internal/imaging"
	"github.com/muurk/loupekit/internal/logging"
	"github.com/muurk/loupekit/internal/protocol"
)

// SetBrightness sets the backlight from 0 (dark) to 100. The device itself
// has an 11-step scale; values are divided by ten and clamped.
func (d *Device) SetBrightness(percent int) error {
	level := percent / 10
	if level < 0 {
		level = 0
	}
	if level > protocol.MaxBrightness {
		level = protocol.MaxBrightness
	}
	return d.Send(protocol.OpSetBrightness, []byte{byte(level)})
}

// SetButtonColor sets the RGB backlight of a named button.
func (d *Device) SetButtonColor(name string, r, g, b uint8) error {
	code, ok := protocol.ButtonCode(name)
	if !ok {
		logging.Warn("unknown button name", zap.String("path", d.path), zap.String("button", name))
		return fmt.Errorf("unknown button %q", name)
	}
	return d.Send(protocol.OpSetColor, []byte{code, r, g, b})
}

// Vibrate triggers a named haptic pattern from the fixed firmware set.
func (d *Device) Vibrate(pattern string) error {
	code, ok := protocol.Haptics[pattern]
	if !ok {
		logging.Warn("unknown haptic pattern", zap.String("path", d.path), zap.String("pattern", pattern))
		return fmt.Errorf("unknown haptic pattern %q", pattern)
	}
	return d.Send(protocol.OpSetVibration, []byte{code})
}

// Refresh latches the named region's framebuffer onto the physical
// display.
func (d *Device) Refresh(region string) error {
	info, ok := protocol.Regions[region]
	if !ok {
		return fmt.Errorf("unknown display region %q", region)
	}
	_, err := d.SendTracked(protocol.OpDraw, info.ID)
	return err
}

// DrawBuffer writes an already-encoded RGB565 buffer into a region's
// framebuffer at (x, y). Width and height default to the region's full
// dimensions when zero. The buffer length must be exactly
// width*height*2; a wrong-length write is rejected without touching the
// wire, since it would desynchronize the device's own framing. When
// refresh is true the region is latched afterwards.
func (d *Device) DrawBuffer(region string, buf []byte, x, y, width, height int, refresh bool) error {
	info, ok := protocol.Regions[region]
	if !ok {
		return fmt.Errorf("unknown display region %q", region)
	}
	if d.State() != HandshakeConfirmed {
		logging.Warn("rejecting framebuffer write before handshake",
			zap.String("path", d.path), zap.String("region", region))
		return fmt.Errorf("device %s: session not confirmed", d.path)
	}
	if x < 0 || y < 0 {
		// Would wrap in the uint16 casts below and land far off-panel.
		return fmt.Errorf("negative draw offset (%d, %d)", x, y)
	}
	if width == 0 {
		width = info.Width
	}
	if height == 0 {
		height = info.Height
	}
	if expected := width * height * 2; len(buf) != expected {
		logging.Warn("rejecting framebuffer write with wrong buffer length",
			zap.String("path", d.path),
			zap.String("region", region),
			zap.Int("len", len(buf)),
			zap.Int("expected", expected))
		return fmt.Errorf("buffer length %d, want %d (%dx%dx2)", len(buf), expected, width, height)
	}
	x += info.XOffset

	payload := make([]byte, 0, len(info.ID)+8+len(buf))
	payload = append(payload, info.ID...)
	payload = appendUint16(payload, uint16(x))
	payload = appendUint16(payload, uint16(y))
	payload = appendUint16(payload, uint16(width))
	payload = appendUint16(payload, uint16(height))
	payload = append(payload, buf...)

	if _, err := d.SendTracked(protocol.OpWriteFramebuff, payload); err != nil {
		return err
	}
	if refresh {
		return d.Refresh(region)
	}
	return nil
}

func appendUint16(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}

// DrawImage converts img to the native pixel format and writes it into a
// region at (x, y). The image's own bounds determine width and height.
func (d *Device) DrawImage(region string, img image.Image, x, y int, refresh bool) error {
	bounds := img.Bounds()
	buf := protocol.ToNativePixels(img)
	return d.DrawBuffer(region, buf, x, y, bounds.Dx(), bounds.Dy(), refresh)
}

// SetKeyImage draws an image onto one 90x90 tile of the center key grid.
// Index runs 0..11, left to right, top to bottom.
func (d *Device) SetKeyImage(index int, img image.Image) error {
	if index < 0 || index >= protocol.KeyColumns*protocol.KeyRows {
		return fmt.Errorf("key index %d out of range", index)
	}
	x := (index % protocol.KeyColumns) * protocol.KeyWidth
	y := (index / protocol.KeyColumns) * protocol.KeyHeight
	return d.DrawImage(protocol.RegionCenter, img, x, y, true)
}

// Reset paints every region with a solid color. Pass color.Black to blank
// the panel.
func (d *Device) Reset(c color.Color) error {
	for name, info := range protocol.Regions {
		img := imaging.Solid(info.Width, info.Height, c)
		if err := d.DrawImage(name, img, 0, 0, true); err != nil {
			return err
		}
	}
	return nil
}

// KeyLayout returns the center grid dimensions as (columns, rows).
func (d *Device) KeyLayout() (int, int) {
	return protocol.KeyColumns, protocol.KeyRows
}

// KeyCount returns the number of touch keys on the center region.
func (d *Device) KeyCount() int {
	return protocol.KeyColumns * protocol.KeyRows
}

// KeyNames returns every touch target on the panel: the two side strips,
// then the center grid indices left to right, top to bottom.
func (d *Device) KeyNames() []string {
	names := make([]string, 0, 2+d.KeyCount())
	names = append(names, protocol.RegionLeft, protocol.RegionRight)
	for i := 0; i < d.KeyCount(); i++ {
		names = append(names, strconv.Itoa(i))
	}
	return names
}
