// Package imaging builds and scales images for the device's displays. The
// protocol core consumes any image.Image; these helpers exist so callers
// can produce correctly-sized ones without pulling in an image toolkit.
package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// Solid returns a width x height image filled with c.
func Solid(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// ScaleToFit returns a width x height image containing src scaled to the
// largest size that fits while preserving aspect ratio, centered on a
// background of bg. Nearest-neighbour sampling; the displays are small
// enough that filtering is not worth a dependency.
func ScaleToFit(src image.Image, width, height int, bg color.Color) *image.RGBA {
	dst := Solid(width, height, bg)

	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 {
		return dst
	}

	// Fit: pick the limiting axis.
	tw, th := width, sh*width/sw
	if th > height {
		tw, th = sw*height/sh, height
	}
	ox := (width - tw) / 2
	oy := (height - th) / 2

	for y := 0; y < th; y++ {
		sy := sb.Min.Y + y*sh/th
		for x := 0; x < tw; x++ {
			sx := sb.Min.X + x*sw/tw
			dst.Set(ox+x, oy+y, src.At(sx, sy))
		}
	}
	return dst
}
