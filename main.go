package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Brawl345/matrixweather/ambience"
	"github.com/Brawl345/matrixweather/app"
	"github.com/Brawl345/matrixweather/config"
	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/geo"
	"github.com/Brawl345/matrixweather/governor"
	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/model/sql"
	"github.com/Brawl345/matrixweather/notify"
	"github.com/Brawl345/matrixweather/particle"
	"github.com/Brawl345/matrixweather/server"
	"github.com/Brawl345/matrixweather/tui"
	"github.com/Brawl345/matrixweather/utils"
	"github.com/Brawl345/matrixweather/weather"
	"github.com/gdamore/tcell/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

const logFile = "logs/matrixweather.log"

var log = logger.New("main")

type flags struct {
	city   string
	units  string
	tier   string
	effect string
	seed   uint64
	sound  bool
	addr   string
	debug  bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.city, "city", "", "look up weather for this city instead of the current location")
	flag.StringVar(&f.units, "units", "", "metric, imperial or kelvin")
	flag.StringVar(&f.tier, "tier", "", "pin the performance tier: low, medium or high")
	flag.StringVar(&f.effect, "effect", "", "force an effect: "+effectNames())
	flag.Uint64Var(&f.seed, "seed", 0, "seed for reproducible particle batches")
	flag.BoolVar(&f.sound, "sound", false, "play ambient sound")
	flag.StringVar(&f.addr, "addr", "", "listen address for serve (default :$PORT)")
	flag.BoolVar(&f.debug, "debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [run|serve|resolve <condition>...|migrate]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	return f
}

func effectNames() string {
	names := make([]string, 0, len(effect.Types()))
	for _, t := range effect.Types() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func printVersionInfo() {
	versionInfo, err := utils.ReadVersionInfo()
	if err != nil {
		log.Debug().Err(err).Msg("No version info")
		return
	}
	log.Info().Msgf("matrixweather-%s, %v", versionInfo.ShortRevision(), versionInfo.LastCommit)
}

func main() {
	f := parseFlags()
	if f.debug {
		logger.SetDebug(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := flag.Arg(0)
	if command == "" {
		command = "run"
	}

	var err error
	switch command {
	case "run":
		err = runTerminal(ctx, f)
	case "serve":
		err = serve(ctx, f)
	case "resolve":
		err = resolve(flag.Args()[1:])
	case "migrate":
		err = migrateOnly()
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func resolve(conditions []string) error {
	if len(conditions) == 0 {
		return errors.New("resolve needs at least one condition")
	}
	for _, condition := range conditions {
		fmt.Printf("%s\t%s\n", condition, effect.Resolve(condition))
	}
	return nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	db, err := sql.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	n, err := sql.Migrate(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if n > 0 {
		log.Info().Msgf("Applied %d migration(s)", n)
	}
	return db, nil
}

func migrateOnly() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	return db.Close()
}

type environment struct {
	cfg        config.Config
	db         *sqlx.DB
	controller *app.Controller
	factory    *particle.Factory
	pinned     *governor.Tier
}

// setup loads the configuration, opens storage and restores the saved state.
func setup(ctx context.Context, f flags) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client, err := weather.New(weather.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY is not set, only cached weather will be shown")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	state := app.NewState(model.DefaultPreferences())
	controller := app.NewController(state, app.Options{
		Client:        client,
		Locator:       geo.NewIPLocator(cfg.IPLocatorURL),
		Geocoder:      geo.NewGeocoder(cfg.NominatimURL, nil),
		Locations:     sql.NewLocationService(db, cfg.Namespace),
		Cache:         sql.NewWeatherCacheService(db, cfg.Namespace),
		Preferences:   sql.NewPreferencesService(db, cfg.Namespace),
		Notifications: notify.NewQueue(),
		DefaultCity:   cfg.DefaultCity,
	})

	if err := controller.Load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	preferences := cfg.Preferences(state.Preferences())
	if f.units != "" {
		units, err := model.ParseUnits(f.units)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		preferences.Units = units
	}
	if preferences != state.Preferences() {
		if err := controller.SetPreferences(ctx, preferences); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if f.city != "" {
		controller.SetCityOverride(f.city)
	}

	if f.effect != "" {
		t, ok := effect.ParseType(f.effect)
		if !ok {
			_ = db.Close()
			return nil, fmt.Errorf("unknown effect %q, expected one of %s", f.effect, effectNames())
		}
		state.ForceEffect(t)
	}

	env := &environment{cfg: cfg, db: db, controller: controller}

	if f.tier != "" {
		tier, err := governor.ParseTier(f.tier)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		env.pinned = &tier
	}

	var rng *rand.Rand
	if f.seed != 0 {
		rng = rand.New(rand.NewPCG(f.seed, f.seed))
	}
	env.factory = particle.NewFactory(effect.NewCatalog().WithDensity(cfg.Density), rng).
		WithBaseCounts(cfg.BaseCounts)

	return env, nil
}

func (env *environment) newGovernor(columns int) *governor.Governor {
	initial := governor.InitialTier(governor.DetectDevice(columns))
	if env.pinned != nil {
		initial = *env.pinned
	}
	g := governor.New(initial)
	g.OnChange(func(from, to governor.Tier) {
		env.controller.Notifications().Info(fmt.Sprintf("Performance tier %s → %s", from, to))
	})
	return g
}

func serve(ctx context.Context, f flags) error {
	printVersionInfo()

	env, err := setup(ctx, f)
	if err != nil {
		return err
	}
	defer env.db.Close()

	addr := f.addr
	if addr == "" {
		addr = ":" + env.cfg.Port
	}

	versionInfo, _ := utils.ReadVersionInfo()
	srv := server.New(server.Options{
		Controller: env.controller,
		Factory:    env.factory,
		Governor:   env.newGovernor(0),
		Version:    versionInfo.ShortRevision(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return env.controller.Run(gctx, app.CheckInterval)
	})
	g.Go(func() error {
		return srv.Listen(gctx, addr)
	})
	return g.Wait()
}

func runTerminal(ctx context.Context, f flags) error {
	if err := logger.ToFile(logFile); err != nil {
		return err
	}
	defer logger.ToConsole()
	printVersionInfo()

	env, err := setup(ctx, f)
	if err != nil {
		return err
	}
	defer env.db.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	columns, _ := screen.Size()
	gov := env.newGovernor(columns)
	device := governor.DetectDevice(columns)
	log.Info().
		Bool("mobile", device.Mobile).
		Int("cores", device.Cores).
		Float64("memory_gb", device.MemoryGB).
		Stringer("tier", gov.Tier()).
		Msg("Device detected")

	var sound tui.Soundscape
	if f.sound {
		soundscape := ambience.New(ambience.DefaultVolume, nil)
		if err := soundscape.Init(); err != nil {
			log.Warn().Err(err).Msg("Audio unavailable, continuing without sound")
		} else {
			defer soundscape.Close()
			sound = soundscape
		}
	}

	view := tui.New(tui.Options{
		Screen:     screen,
		Controller: env.controller,
		Factory:    env.factory,
		Governor:   gov,
		Sound:      sound,
		LowPower:   device.Mobile,
		Tier:       env.pinned,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return env.controller.Run(gctx, app.CheckInterval)
	})
	g.Go(func() error {
		defer cancel()
		return view.Run(gctx)
	})
	return g.Wait()
}
