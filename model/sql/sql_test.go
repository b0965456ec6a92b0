package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/model"
	"github.com/jmoiron/sqlx"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := New(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	n, err := Migrate(db)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 migrations, got %d", n)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	n, err := Migrate(db)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no pending migrations, got %d", n)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New("oracle", "x"); err == nil {
		t.Error("Expected error for unknown driver")
	}
	if _, err := New(DriverPostgres, ""); err == nil {
		t.Error("Expected error for postgres without DSN")
	}
}

func TestLocationService(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	svc := NewLocationService(db, DefaultNamespace)

	if _, err := svc.GetLocation(ctx); !errors.Is(err, model.ErrLocationNotSet) {
		t.Fatalf("Expected ErrLocationNotSet, got %v", err)
	}

	dubai := model.Location{Latitude: 25.2048, Longitude: 55.2708, City: "Dubai", Country: "AE"}
	if err := svc.SetLocation(ctx, dubai); err != nil {
		t.Fatalf("SetLocation failed: %v", err)
	}

	got, err := svc.GetLocation(ctx)
	if err != nil {
		t.Fatalf("GetLocation failed: %v", err)
	}
	if got != dubai {
		t.Errorf("Expected %+v, got %+v", dubai, got)
	}

	coordsOnly := model.Location{Latitude: 1.5, Longitude: 2.5}
	if err := svc.SetLocation(ctx, coordsOnly); err != nil {
		t.Fatalf("SetLocation update failed: %v", err)
	}
	got, _ = svc.GetLocation(ctx)
	if got != coordsOnly {
		t.Errorf("Expected upsert to replace the row, got %+v", got)
	}

	other := NewLocationService(db, "other")
	if _, err := other.GetLocation(ctx); !errors.Is(err, model.ErrLocationNotSet) {
		t.Errorf("Expected namespaces to be isolated, got %v", err)
	}

	if err := svc.DeleteLocation(ctx); err != nil {
		t.Fatalf("DeleteLocation failed: %v", err)
	}
	if _, err := svc.GetLocation(ctx); !errors.Is(err, model.ErrLocationNotSet) {
		t.Errorf("Expected ErrLocationNotSet after delete, got %v", err)
	}
}

func TestWeatherCacheService(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	svc := NewWeatherCacheService(db, DefaultNamespace)

	if _, err := svc.GetCachedWeather(ctx); !errors.Is(err, model.ErrNoCachedWeather) {
		t.Fatalf("Expected ErrNoCachedWeather, got %v", err)
	}

	var w model.Weather
	w.Name = "Dubai"
	w.Sys.Country = "AE"
	w.Main.Temp = 31.4
	w.Conditions = []model.Condition{{ID: 211, Main: "Thunderstorm", Description: "thunderstorm"}}

	fetched := time.UnixMilli(1_700_000_000_123)
	cached := model.CachedWeather{Weather: w, Effect: effect.Storm, FetchedAt: fetched}
	if err := svc.SetCachedWeather(ctx, cached); err != nil {
		t.Fatalf("SetCachedWeather failed: %v", err)
	}

	got, err := svc.GetCachedWeather(ctx)
	if err != nil {
		t.Fatalf("GetCachedWeather failed: %v", err)
	}
	if got.Effect != effect.Storm {
		t.Errorf("Expected storm, got %s", got.Effect)
	}
	if !got.FetchedAt.Equal(fetched) {
		t.Errorf("Expected fetched at %v, got %v", fetched, got.FetchedAt)
	}
	if got.Weather.Name != "Dubai" || got.Weather.Main.Temp != 31.4 || got.Weather.Condition() != "Thunderstorm" {
		t.Errorf("Unexpected weather payload %+v", got.Weather)
	}

	if err := svc.DeleteCachedWeather(ctx); err != nil {
		t.Fatalf("DeleteCachedWeather failed: %v", err)
	}
	if _, err := svc.GetCachedWeather(ctx); !errors.Is(err, model.ErrNoCachedWeather) {
		t.Errorf("Expected ErrNoCachedWeather after delete, got %v", err)
	}
}

func TestPreferencesService(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	svc := NewPreferencesService(db, DefaultNamespace)

	got, err := svc.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if got != model.DefaultPreferences() {
		t.Errorf("Expected defaults before first save, got %+v", got)
	}

	prefs := model.Preferences{
		AutoRefresh:     false,
		RefreshInterval: 90 * time.Minute,
		Units:           model.Imperial,
		Notifications:   false,
	}
	if err := svc.SetPreferences(ctx, prefs); err != nil {
		t.Fatalf("SetPreferences failed: %v", err)
	}

	got, err = svc.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if got != prefs {
		t.Errorf("Expected %+v, got %+v", prefs, got)
	}
}

func TestPreferencesDefaultsForUpgradedRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	// A row written with only the namespace picks up the column defaults.
	if _, err := db.Exec(`INSERT INTO preferences (namespace) VALUES (?)`, DefaultNamespace); err != nil {
		t.Fatal(err)
	}

	got, err := NewPreferencesService(db, DefaultNamespace).GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if got != model.DefaultPreferences() {
		t.Errorf("Expected defaults, got %+v", got)
	}
}

func TestUpsertQuery(t *testing.T) {
	db := openTestDB(t)

	got := upsertQuery(db, "locations", []string{"namespace", "city"})
	want := "INSERT INTO locations (namespace, city) VALUES (?, ?) ON CONFLICT (namespace) DO UPDATE SET city = EXCLUDED.city"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
