package tui

import (
	"math"

	"github.com/Brawl345/matrixweather/particle"
)

const (
	// FocalLength is the camera distance from the field centre.
	FocalLength = 14.0
	// viewScale maps world units to rows relative to the view height.
	viewScale = 0.13
	// cellAspect compensates for terminal cells being twice as tall as wide.
	cellAspect = 2.0
	minDenom   = 0.5
)

// Projected is a particle position on the terminal grid.
type Projected struct {
	X, Y int
	// Near is 1 at the camera plane and falls towards 0 with distance.
	Near float64
}

// Project maps a world position into a width x height viewport. Positive z
// points away from the camera. ok is false when the point falls outside.
func Project(v particle.Vec3, width, height int) (p Projected, ok bool) {
	if width <= 0 || height <= 0 {
		return Projected{}, false
	}

	denom := v.Z + FocalLength
	if denom < minDenom {
		denom = minDenom
	}
	invZ := FocalLength / denom

	viewH := float64(height)
	scale := viewH * viewScale

	cx := float64(width)/2.0 + v.X*invZ*scale*cellAspect
	// world y points up, rows grow downwards
	cy := viewH/2.0 - v.Y*invZ*scale

	x := int(math.Floor(cx))
	y := int(math.Floor(cy))
	if x < 0 || y < 0 || x >= width || y >= height {
		return Projected{}, false
	}

	return Projected{X: x, Y: y, Near: math.Min(invZ, 1)}, true
}
