package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Brawl345/matrixweather/app"
	"github.com/Brawl345/matrixweather/particle"
	"github.com/Brawl345/matrixweather/utils"
	"github.com/Brawl345/matrixweather/weather"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/exp/slices"
)

const (
	cardWidth = 32
	keyHelp   = "r:refresh  e:effect  t:tier  u:units  l:locate  q:quit"
)

type cell struct {
	Projected
	glyph rune
}

func (v *View) draw(now time.Time) {
	v.screen.Clear()

	viewH := v.height - hudRows
	if viewH > 0 {
		v.drawParticles(viewH)
	}

	snap := v.state.Snapshot()
	v.drawCard(snap, now)
	v.drawBadge(snap)
	v.drawNotifications(now)
	v.drawHUD()

	v.screen.Show()
}

func (v *View) drawParticles(viewH int) {
	cells := make([]cell, 0, v.field.Len())
	v.field.Each(func(p *particle.Particle) {
		if proj, ok := Project(p.Position, v.width, viewH); ok {
			cells = append(cells, cell{Projected: proj, glyph: p.Glyph})
		}
	})

	// far to near so closer glyphs win overlapping cells
	slices.SortFunc(cells, func(a, b cell) int {
		switch {
		case a.Near < b.Near:
			return -1
		case a.Near > b.Near:
			return 1
		}
		return 0
	})

	e := v.field.Effect()
	for _, c := range cells {
		v.screen.SetContent(c.X, c.Y, c.glyph, nil, v.palette.style(e, c.Near))
	}
}

func (v *View) cardLines(snap app.Snapshot, now time.Time) []string {
	w := snap.Weather
	if w == nil {
		if snap.Loading {
			return []string{"Connecting to weather feed..."}
		}
		return []string{"No weather data yet", "Press r to refresh"}
	}

	units := snap.Preferences.Units
	m := weather.NewMetrics(w)

	lines := []string{
		snap.Location.String(),
		fmt.Sprintf("%s %s  %s", w.Main.Temp.Format(units), w.Main.Temp.Icon(units), w.Description()),
		fmt.Sprintf("Feels like %s (%+d°)", w.Main.FeelsLike.Format(units), m.TempDiff),
		fmt.Sprintf("Humidity   %d%%", m.Humidity),
	}

	wind := fmt.Sprintf("Wind       %.1f %s", m.WindSpeed, units.SpeedUnit())
	if m.WindDir != "" {
		wind += " " + m.WindDir
	}
	lines = append(lines,
		wind,
		fmt.Sprintf("Pressure   %s hPa %s", utils.FormatThousand(m.Pressure), m.PressureTrend),
	)
	if m.VisibilityKM != nil {
		lines = append(lines, fmt.Sprintf("Visibility %d km", *m.VisibilityKM))
	}
	if m.Sunrise != nil && m.Sunset != nil {
		lines = append(lines, fmt.Sprintf("Sun        ↑%s ↓%s", m.Sunrise.Format("15:04"), m.Sunset.Format("15:04")))
	}
	lines = append(lines, "Updated    "+utils.TimeAgo(snap.LastFetch, now))
	return lines
}

func (v *View) drawCard(snap app.Snapshot, now time.Time) {
	lines := v.cardLines(snap, now)
	width := min(cardWidth, v.width-2)
	if width < 10 || len(lines)+2 > v.height-hudRows {
		return
	}

	x, y := 1, 0
	v.drawBox(x, y, width, len(lines)+2, " MATRIX WEATHER ")
	for i, line := range lines {
		style := styleText
		if i == 0 {
			style = styleTitle
		}
		v.drawText(x+2, y+1+i, runewidth.Truncate(line, width-4, "…"), style)
	}
}

func (v *View) drawBox(x, y, w, h int, title string) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			v.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
	for col := x + 1; col < x+w-1; col++ {
		v.screen.SetContent(col, y, '─', nil, styleFrame)
		v.screen.SetContent(col, y+h-1, '─', nil, styleFrame)
	}
	for row := y + 1; row < y+h-1; row++ {
		v.screen.SetContent(x, row, '│', nil, styleFrame)
		v.screen.SetContent(x+w-1, row, '│', nil, styleFrame)
	}
	v.screen.SetContent(x, y, '┌', nil, styleFrame)
	v.screen.SetContent(x+w-1, y, '┐', nil, styleFrame)
	v.screen.SetContent(x, y+h-1, '└', nil, styleFrame)
	v.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleFrame)
	v.drawText(x+2, y, title, styleTitle)
}

func (v *View) drawBadge(snap app.Snapshot) {
	text, style := "○ OFFLINE · Cached data", styleOffline
	if snap.Online {
		text, style = "● ONLINE · Live data", styleOnline
	}
	if snap.Weather == nil && !snap.Online {
		text = "○ OFFLINE"
	}
	x := v.width - runewidth.StringWidth(text) - 1
	if x < 0 {
		return
	}
	v.drawText(x, 0, text, style)
}

func (v *View) drawNotifications(now time.Time) {
	active := v.controller.Notifications().Active(now)
	y := v.height - hudRows - 1
	for i := len(active) - 1; i >= 0 && y > 0; i-- {
		n := active[i]
		text := runewidth.Truncate(" "+n.Message+" ", max(v.width-2, 0), "…")
		x := v.width - runewidth.StringWidth(text) - 1
		style, ok := notificationStyles[n.Kind]
		if !ok {
			style = styleText
		}
		v.drawText(max(x, 0), y, text, style.Reverse(true))
		y--
	}
}

func (v *View) drawHUD() {
	if v.height < hudRows {
		return
	}
	metrics := v.governor.Metrics()

	tier := v.currentTier().String()
	if v.tier == nil {
		tier += " (auto)"
	}
	status := fmt.Sprintf("EFFECT %s  TIER %s  FPS %d  PARTICLES %d",
		strings.ToUpper(string(v.field.Effect())), tier, metrics.FPS, v.field.Len())
	if v.lowPower {
		status += "  LOW POWER"
	}

	v.drawText(1, v.height-2, runewidth.Truncate(status, max(v.width-2, 0), "…"), styleText)
	v.drawText(1, v.height-1, runewidth.Truncate(keyHelp, max(v.width-2, 0), "…"), styleDim)
}

// drawText writes s starting at x and returns the column after it.
func (v *View) drawText(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= v.width {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
	return x
}
