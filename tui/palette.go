package tui

import (
	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/notify"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// depthLevels is how many distinct shades a colour is dimmed into.
const depthLevels = 8

var (
	background = colorful.Color{R: 0, G: 0, B: 0}
	fallback   = colorful.Color{R: 0, G: 1, B: 0}

	styleText  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(180, 255, 180))
	styleDim   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(90, 130, 90))
	styleTitle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 70)).Bold(true)
	styleFrame = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 140, 40))

	styleOnline  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 70)).Bold(true)
	styleOffline = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 170, 0)).Bold(true)

	notificationStyles = map[notify.Kind]tcell.Style{
		notify.Success: tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 70)),
		notify.Info:    tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 200, 255)),
		notify.Warning: tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 200, 0)),
		notify.Error:   tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 70, 70)).Bold(true),
	}
)

// palette caches the depth shaded styles of every effect colour.
type palette struct {
	shades map[effect.Type][depthLevels]tcell.Style
}

func newPalette(catalog *effect.Catalog) *palette {
	p := &palette{shades: make(map[effect.Type][depthLevels]tcell.Style)}
	for _, t := range effect.Types() {
		settings := catalog.Settings(t)
		base, err := colorful.Hex(settings.Color)
		if err != nil {
			log.Warn().
				Err(err).
				Str("effect", string(t)).
				Str("color", settings.Color).
				Msg("Invalid effect colour, using green")
			base = fallback
		}

		var shades [depthLevels]tcell.Style
		for i := range shades {
			// i == 0 is nearest
			dim := float64(i) / float64(depthLevels) * 0.75
			shades[i] = tcell.StyleDefault.
				Foreground(toTcell(base.BlendLab(background, dim).Clamped())).
				Bold(settings.SymbolScale > 1 && i == 0)
		}
		p.shades[t] = shades
	}
	return p
}

// style returns the shade for a particle whose projection has the given
// nearness in (0, 1].
func (p *palette) style(t effect.Type, near float64) tcell.Style {
	shades, ok := p.shades[t]
	if !ok {
		shades = p.shades[effect.Default]
	}
	i := int((1 - near) * 2 * depthLevels)
	if i < 0 {
		i = 0
	}
	if i >= depthLevels {
		i = depthLevels - 1
	}
	return shades[i]
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
