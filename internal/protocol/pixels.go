package protocol

import "image"

// RGB565 packs 8-bit-per-channel color into the device's 16-bit format:
// 5 bits red, 6 bits green, 5 bits blue.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// ToNativePixels converts an image into the framebuffer's native format:
// RGB565, row-major, each 16-bit value little-endian. The rest of the
// protocol is big-endian; the framebuffer is not.
func ToNativePixels(img image.Image) []byte {
	bounds := img.Bounds()
	out := make([]byte, 0, bounds.Dx()*bounds.Dy()*2)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			v := RGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			out = append(out, byte(v), byte(v>>8))
		}
	}
	return out
}
