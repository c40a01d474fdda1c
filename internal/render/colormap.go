// Package render maps macroscopic field snapshots to RGBA images. It is a
// collaborator of the solver, never the other way around: it only reads
// published snapshots.
package render

import (
	"image/color"
	"math"
)

// Hue endpoints: cyan for values below the standard value, red/magenta for
// values above it. Saturation stays full; the normalized deviation drives
// the value channel, so the standard value itself renders black.
const (
	hueBelow = 180.0
	hueAbove = 360.0
)

// wallColor masks obstacle and wall cells.
var wallColor = color.RGBA{R: 0x20, G: 0x20, B: 0x26, A: 0xff}

// fieldColor converts a field value into a color given the standard value
// and the normalization divisor (the largest absolute deviation from the
// standard across the plane). amplify applies a square root to lift small
// deviations, used for vorticity.
func fieldColor(value, standard, divisor float64, amplify bool) color.RGBA {
	hue := hueAbove
	if value < standard {
		hue = hueBelow
	}
	v := 0.0
	if divisor > 0 {
		v = math.Abs(value-standard) / divisor
	}
	if amplify {
		v = math.Sqrt(v)
	}
	if v > 1 {
		v = 1
	}
	r, g, b := hsvToRGB(hue, 1, v)
	return color.RGBA{
		R: uint8(r * 255),
		G: uint8(g * 255),
		B: uint8(b * 255),
		A: 255,
	}
}

// hsvToRGB converts HSV with h in [0,360] and s, v in [0,1] to RGB in [0,1].
func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	c := v * s
	h = math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))
	var r1, g1, b1 float64
	switch {
	case h < 1:
		r1, g1, b1 = c, x, 0
	case h < 2:
		r1, g1, b1 = x, c, 0
	case h < 3:
		r1, g1, b1 = 0, c, x
	case h < 4:
		r1, g1, b1 = 0, x, c
	case h < 5:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}
	m := v - c
	return r1 + m, g1 + m, b1 + m
}
