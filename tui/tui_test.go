package tui

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/Brawl345/matrixweather/app"
	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/governor"
	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/particle"
	"github.com/gdamore/tcell/v2"
)

type recordingSound struct {
	effects []effect.Type
}

func (r *recordingSound) SetEffect(t effect.Type) {
	r.effects = append(r.effects, t)
}

func newTestView(t *testing.T, width, height int) (*View, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(width, height)
	t.Cleanup(screen.Fini)

	state := app.NewState(model.DefaultPreferences())
	controller := app.NewController(state, app.Options{})
	factory := particle.NewFactory(effect.NewCatalog(), rand.New(rand.NewPCG(1, 2)))

	v := New(Options{
		Screen:     screen,
		Controller: controller,
		Factory:    factory,
		Governor:   governor.New(governor.Medium),
	})
	v.start = time.Unix(0, 0)
	return v, screen
}

func screenText(screen tcell.SimulationScreen) []string {
	cells, width, height := screen.GetContents()
	rows := make([]string, height)
	for y := 0; y < height; y++ {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			runes := cells[y*width+x].Runes
			if len(runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(runes[0])
		}
		rows[y] = sb.String()
	}
	return rows
}

func containsText(screen tcell.SimulationScreen, text string) bool {
	for _, row := range screenText(screen) {
		if strings.Contains(row, text) {
			return true
		}
	}
	return false
}

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		v      particle.Vec3
		wantX  int
		wantY  int
		wantOK bool
	}{
		{"centre", particle.Vec3{}, 50, 15, true},
		{"up is up", particle.Vec3{Y: 2}, 50, 7, true},
		{"far away", particle.Vec3{X: 1000}, 0, 0, false},
		{"behind the camera clamps", particle.Vec3{Z: -20}, 50, 15, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, ok := Project(test.v, 100, 30)
			if ok != test.wantOK {
				t.Fatalf("Expected ok=%v, got %v", test.wantOK, ok)
			}
			if !ok {
				return
			}
			if p.X != test.wantX || p.Y != test.wantY {
				t.Errorf("Expected (%d, %d), got (%d, %d)", test.wantX, test.wantY, p.X, p.Y)
			}
		})
	}
}

func TestProjectDepth(t *testing.T) {
	near, _ := Project(particle.Vec3{Z: -5}, 100, 30)
	far, _ := Project(particle.Vec3{Z: 10}, 100, 30)

	if near.Near != 1 {
		t.Errorf("Expected near points to clamp to 1, got %v", near.Near)
	}
	if far.Near >= near.Near {
		t.Errorf("Expected far point to be dimmer, got %v >= %v", far.Near, near.Near)
	}
}

func TestDrawWithoutWeather(t *testing.T) {
	v, screen := newTestView(t, 100, 30)
	v.frame(time.Unix(1, 0))

	if !containsText(screen, "No weather data yet") {
		t.Errorf("Expected empty card, got:\n%s", strings.Join(screenText(screen), "\n"))
	}
	if !containsText(screen, "OFFLINE") {
		t.Errorf("Expected offline badge")
	}
	if !containsText(screen, "q:quit") {
		t.Errorf("Expected key help")
	}
}

func TestDrawWeatherCard(t *testing.T) {
	v, screen := newTestView(t, 100, 30)

	w := &model.Weather{Name: "Oslo", Conditions: []model.Condition{{Main: "Rain", Description: "light rain"}}}
	w.Main.Temp = 8.2
	w.Main.FeelsLike = 6.1
	w.Main.Pressure = 998
	w.Main.Humidity = 88
	v.state.SetWeather(w, time.Unix(0, 0))
	v.state.SetLocation(model.Location{City: "Oslo", Country: "NO"})
	v.state.SetOnline(true)

	v.frame(time.Unix(1, 0))

	for _, want := range []string{"Oslo, NO", "light rain", "Humidity   88%", "998 hPa ↘", "ONLINE", "Live data", "EFFECT RAIN"} {
		if !containsText(screen, want) {
			t.Errorf("Expected %q on screen, got:\n%s", want, strings.Join(screenText(screen), "\n"))
		}
	}
}

func TestDrawParticles(t *testing.T) {
	v, screen := newTestView(t, 100, 30)
	v.state.ForceEffect(effect.Storm)
	v.frame(time.Unix(1, 0))

	glyphs := string(effect.NewCatalog().Glyphs(effect.Storm))
	rows := screenText(screen)

	found := 0
	// below the empty card and above the HUD
	for _, row := range rows[5 : len(rows)-hudRows] {
		for _, r := range row {
			if r != ' ' && strings.ContainsRune(glyphs, r) {
				found++
			}
		}
	}
	if found == 0 {
		t.Errorf("Expected storm glyphs in the viewport")
	}
}

func TestDrawNotifications(t *testing.T) {
	v, screen := newTestView(t, 100, 30)
	v.controller.Notifications().Info("Hello from the feed")
	v.frame(time.Now())

	if !containsText(screen, "Hello from the feed") {
		t.Errorf("Expected notification on screen")
	}
}

func TestFrameFollowsEffect(t *testing.T) {
	v, _ := newTestView(t, 100, 30)
	sound := &recordingSound{}
	v.sound = sound

	v.frame(time.Unix(1, 0))
	v.state.ForceEffect(effect.Rain)
	v.frame(time.Unix(2, 0))

	if v.field.Effect() != effect.Rain {
		t.Errorf("Expected rain field, got %s", v.field.Effect())
	}
	if len(sound.effects) != 2 || sound.effects[0] != effect.Default || sound.effects[1] != effect.Rain {
		t.Errorf("Expected default then rain, got %v", sound.effects)
	}
}

func TestCompactBounds(t *testing.T) {
	v, _ := newTestView(t, 60, 20)
	if v.bounds() != particle.DefaultBounds().Compact() {
		t.Errorf("Expected compact bounds on a narrow terminal")
	}
}

func TestHandleEventKeys(t *testing.T) {
	v, _ := newTestView(t, 100, 30)
	ctx := context.Background()
	key := func(r rune) *tcell.EventKey {
		return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
	}

	if !v.handleEvent(ctx, key('e')) || v.state.ForcedEffect() != effect.Sun {
		t.Errorf("Expected e to force sun, got %q", v.state.ForcedEffect())
	}
	v.handleEvent(ctx, key('e'))
	if v.state.ForcedEffect() != effect.Rain {
		t.Errorf("Expected e to advance to rain, got %q", v.state.ForcedEffect())
	}

	v.handleEvent(ctx, key('t'))
	if v.tier == nil || *v.tier != governor.Low {
		t.Errorf("Expected t to pin the low tier")
	}
	v.handleEvent(ctx, key('t'))
	v.handleEvent(ctx, key('t'))
	v.handleEvent(ctx, key('t'))
	if v.tier != nil {
		t.Errorf("Expected the tier to return to automatic")
	}

	if v.handleEvent(ctx, key('q')) {
		t.Errorf("Expected q to quit")
	}
	if v.handleEvent(ctx, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Errorf("Expected Esc to quit")
	}
}

func TestCycleEffectReturnsToWeather(t *testing.T) {
	v, _ := newTestView(t, 100, 30)
	for range effect.Types() {
		v.cycleEffect()
	}
	if v.state.ForcedEffect() != effect.Default {
		t.Fatalf("Expected the last forced effect to be default, got %q", v.state.ForcedEffect())
	}
	v.cycleEffect()
	if v.state.ForcedEffect() != "" {
		t.Errorf("Expected to follow the weather again, got %q", v.state.ForcedEffect())
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	v, screen := newTestView(t, 100, 30)

	done := make(chan error, 1)
	go func() {
		done <- v.Run(context.Background())
	}()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Run to return after q")
	}
}

func TestFramesAtRefreshRatePromoteLowTier(t *testing.T) {
	v, _ := newTestView(t, 120, 40)
	v.governor = governor.New(governor.Low)

	now := v.start
	for i := 0; i < 3*60; i++ {
		v.frame(now)
		now = now.Add(refreshInterval)
	}

	if got := v.governor.Tier(); got != governor.High {
		t.Errorf("Expected low to climb to high at the refresh rate, got %s (%+v)", got, v.governor.Metrics())
	}
}

func TestRunPromotesLowTierWhenIdle(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the render loop in real time")
	}

	v, _ := newTestView(t, 120, 40)
	v.governor = governor.New(governor.Low)

	ctx, cancel := context.WithTimeout(context.Background(), 3500*time.Millisecond)
	defer cancel()
	if err := v.Run(ctx); err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}

	if got := v.governor.Tier(); got == governor.Low {
		t.Errorf("Expected an idle view to leave the low tier, got %s (%+v)", got, v.governor.Metrics())
	}
}
