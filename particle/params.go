package particle

// Spawn volume
const (
	// BoundsX is the full width of the spawn box; particles span ±BoundsX/2
	BoundsX = 40.0

	// BoundsYTop is where falling particles respawn
	BoundsYTop = 15.0

	// BoundsYBottom is the recycle line for falling particles
	BoundsYBottom = -15.0

	// BoundsZ is the full depth of the spawn box; particles span ±BoundsZ/2
	BoundsZ = 20.0

	// CompactScaleX shrinks the width on small screens
	CompactScaleX = 0.8

	// CompactScaleZ shrinks the depth on small screens
	CompactScaleZ = 0.6
)

// Base particle counts per tier, before the effect density multiplier
const (
	BaseCountLow    = 30
	BaseCountMedium = 50
	BaseCountHigh   = 90
)

// Animation frequencies in radians per second
const (
	SpeedVerySlow = 0.3
	SpeedSlow     = 0.5
	SpeedFast     = 1.3
	SpeedChaotic  = 2.5

	// FloatAmplitude is the x swing of the floating effects
	FloatAmplitude = 1.5

	// FloatFrequency drives cloud and default floating
	FloatFrequency = 0.3
)

// Falling effects
const (
	// FallBoost scales every speed factor for the falling effects
	FallBoost = 1.5

	// RainFallRate is units per second at speed factor 1, before FallBoost
	RainFallRate = 5.0

	// SnowFallRate is units per second at speed factor 1, before FallBoost
	SnowFallRate = 0.6

	// SnowDrift is the lateral nudge per frame
	SnowDrift = 0.01
)

// Oscillating effects
const (
	SunAmplitudeX = 2.0
	SunAmplitudeY = 1.5
	SunFrequencyY = 0.7

	WindAmplitudeX = 3.0
	WindAmplitudeY = 2.0
	WindFrequencyY = 1.5

	StormAmplitudeX = 4.0
	StormAmplitudeY = 3.0
	StormAmplitudeZ = 2.0

	// StormLowPower damps storm amplitude on constrained devices
	StormLowPower = 0.6

	FogAmplitudeY = 0.8

	// FloatDamping slows the y axis relative to x for fog, cloud and default
	FloatDamping = 0.7

	CloudAmplitudeY = 1.0

	DefaultAmplitudeY = 1.0
	DefaultAmplitudeZ = 0.8

	// DefaultDepthRatio slows the z axis relative to x for default
	DefaultDepthRatio = 0.5
)
