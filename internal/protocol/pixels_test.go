package protocol

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestRGB565(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint16
	}{
		{name: "black", r: 0, g: 0, b: 0, want: 0x0000},
		{name: "white", r: 255, g: 255, b: 255, want: 0xFFFF},
		{name: "pure red", r: 255, g: 0, b: 0, want: 0xF800},
		{name: "pure green", r: 0, g: 255, b: 0, want: 0x07E0},
		{name: "pure blue", r: 0, g: 0, b: 255, want: 0x001F},
		{name: "low bits truncated", r: 0x07, g: 0x03, b: 0x07, want: 0x0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGB565(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("RGB565(%d, %d, %d) = %#04x, want %#04x", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestToNativePixels(t *testing.T) {
	tests := []struct {
		name     string
		img      image.Image
		wantByte func(i int) byte
	}{
		{
			name:     "all black is all zeros",
			img:      solidImage(4, 3, color.Black),
			wantByte: func(int) byte { return 0x00 },
		},
		{
			name:     "all white is all ones",
			img:      solidImage(4, 3, color.White),
			wantByte: func(int) byte { return 0xFF },
		},
		{
			name: "pure red packs little-endian",
			img:  solidImage(2, 2, color.RGBA{R: 255, A: 255}),
			// 0xF800 on the wire is 00 F8.
			wantByte: func(i int) byte {
				if i%2 == 0 {
					return 0x00
				}
				return 0xF8
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNativePixels(tt.img)
			b := tt.img.Bounds()
			if want := b.Dx() * b.Dy() * 2; len(got) != want {
				t.Fatalf("len = %d, want %d", len(got), want)
			}
			for i, v := range got {
				if want := tt.wantByte(i); v != want {
					t.Fatalf("byte %d = %#02x, want %#02x", i, v, want)
				}
			}
		})
	}
}

func TestToNativePixelsRowMajor(t *testing.T) {
	// One white pixel at (1, 0) of a 2x2 black image: the second pixel
	// pair in the buffer must be the only nonzero one.
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.White)

	got := ToNativePixels(img)
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	for i, v := range got {
		nonzero := i == 2 || i == 3
		if nonzero && v != 0xFF {
			t.Errorf("byte %d = %#02x, want 0xff", i, v)
		}
		if !nonzero && v != 0x00 {
			t.Errorf("byte %d = %#02x, want 0x00", i, v)
		}
	}
}
