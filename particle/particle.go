// Package particle builds particle batches for an effect and animates them.
package particle

import (
	"math/rand/v2"

	"github.com/Brawl345/matrixweather/effect"
)

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

type Particle struct {
	Glyph    rune        `json:"glyph"`
	Origin   Vec3        `json:"origin"`
	Position Vec3        `json:"position"`
	Phase    float64     `json:"phase"`
	Effect   effect.Type `json:"effect"`
}

// Bounds is the spawn and recycle volume: x in [-XExtent, XExtent],
// y in [YBottom, YTop], z in [-ZExtent, ZExtent].
type Bounds struct {
	XExtent float64 `json:"x_extent"`
	YTop    float64 `json:"y_top"`
	YBottom float64 `json:"y_bottom"`
	ZExtent float64 `json:"z_extent"`
}

func DefaultBounds() Bounds {
	return Bounds{
		XExtent: BoundsX / 2,
		YTop:    BoundsYTop,
		YBottom: BoundsYBottom,
		ZExtent: BoundsZ / 2,
	}
}

// Compact narrows x and z for small screens.
func (b Bounds) Compact() Bounds {
	b.XExtent *= CompactScaleX
	b.ZExtent *= CompactScaleZ
	return b
}

func (b Bounds) Contains(v Vec3) bool {
	return v.X >= -b.XExtent && v.X <= b.XExtent &&
		v.Y >= b.YBottom && v.Y <= b.YTop &&
		v.Z >= -b.ZExtent && v.Z <= b.ZExtent
}

func (b Bounds) randomPosition(r *rand.Rand) Vec3 {
	return Vec3{
		X: uniform(r, -b.XExtent, b.XExtent),
		Y: uniform(r, b.YBottom, b.YTop),
		Z: uniform(r, -b.ZExtent, b.ZExtent),
	}
}

// uniform samples [lo, hi). A nil r uses the global source.
func uniform(r *rand.Rand, lo, hi float64) float64 {
	var f float64
	if r == nil {
		f = rand.Float64()
	} else {
		f = r.Float64()
	}
	return lo + f*(hi-lo)
}
