package effect

import (
	"maps"
)

type (
	VisualSettings struct {
		SpeedFactor       float64 `json:"speed_factor"`
		SymbolScale       float64 `json:"symbol_scale"`
		DensityMultiplier float64 `json:"density_multiplier"`
		Color             string  `json:"color"`
	}

	GlyphSet []rune

	// Catalog is read-only after construction; WithDensity returns a copy.
	Catalog struct {
		settings map[Type]VisualSettings
		glyphs   map[Type]GlyphSet
	}
)

const (
	digits        = "0123456789"
	katakanaA     = "アイウエオカキクケコ"
	katakanaSa    = "サシスセソタチツナニ"
	katakanaNo    = "ノハヒフヘホマミムメ"
	katakanaYa    = "ヤユヨラリルレロワヲ"
	defaultSymbol = `|/\-_=+*.,░▒▓`
)

var defaultSettings = map[Type]VisualSettings{
	Sun:     {SpeedFactor: 0.5, SymbolScale: 1.2, DensityMultiplier: 2.0, Color: "#ffdd00"},
	Cloud:   {SpeedFactor: 0.8, SymbolScale: 1, DensityMultiplier: 2.5, Color: "#aaaaaa"},
	Wind:    {SpeedFactor: 1.4, SymbolScale: 1, DensityMultiplier: 2.5, Color: "#88ffaa"},
	Rain:    {SpeedFactor: 1.3, SymbolScale: 0.8, DensityMultiplier: 3.0, Color: "#4488ff"},
	Snow:    {SpeedFactor: 1.2, SymbolScale: 0.9, DensityMultiplier: 2.5, Color: "#ffffff"},
	Fog:     {SpeedFactor: 0.6, SymbolScale: 1, DensityMultiplier: 2.2, Color: "#888888"},
	Storm:   {SpeedFactor: 2, SymbolScale: 1.1, DensityMultiplier: 3.5, Color: "#ff4444"},
	Default: {SpeedFactor: 1.0, SymbolScale: 1, DensityMultiplier: 2.0, Color: "#00ff00"},
}

var defaultGlyphs = map[Type]string{
	Rain:    digits + katakanaA + `💧╱╲|/\_`,
	Sun:     digits + katakanaA + "☀★✦✧◉◎⊙◯○●◊◈",
	Cloud:   digits + katakanaSa + "▓▒░≡≈~-=",
	Snow:    digits + katakanaNo + "◦○°·⋅*+",
	Wind:    digits + katakanaYa + "~≈∼→↗↘⇢",
	Storm:   digits + katakanaA + "⚡☁💥⛈❗╳✖",
	Fog:     digits + katakanaSa + "▒░≡….,`",
	Default: digits + katakanaA + katakanaSa + katakanaNo + defaultSymbol,
}

func NewCatalog() *Catalog {
	c := &Catalog{
		settings: maps.Clone(defaultSettings),
		glyphs:   make(map[Type]GlyphSet, len(defaultGlyphs)),
	}
	for t, s := range defaultGlyphs {
		c.glyphs[t] = GlyphSet(s)
	}
	return c
}

// Settings never fails; unknown types get the Default entry.
func (c *Catalog) Settings(t Type) VisualSettings {
	if s, ok := c.settings[t]; ok {
		return s
	}
	return c.settings[Default]
}

// Glyphs returns a non-empty set. Callers must not modify it.
func (c *Catalog) Glyphs(t Type) GlyphSet {
	if g, ok := c.glyphs[t]; ok && len(g) > 0 {
		return g
	}
	return c.glyphs[Default]
}

// WithDensity returns a catalog with the given density multipliers replaced.
// Non-positive values are ignored.
func (c *Catalog) WithDensity(overrides map[Type]float64) *Catalog {
	next := &Catalog{
		settings: maps.Clone(c.settings),
		glyphs:   c.glyphs,
	}
	for t, m := range overrides {
		s, ok := next.settings[t]
		if !ok || m <= 0 {
			continue
		}
		s.DensityMultiplier = m
		next.settings[t] = s
	}
	return next
}
