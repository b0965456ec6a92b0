package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/sosodev/duration"
)

type preferencesService struct {
	*sqlx.DB
	namespace string
	log       zerolog.Logger
}

func NewPreferencesService(db *sqlx.DB, namespace string) *preferencesService {
	return &preferencesService{
		DB:        db,
		namespace: namespace,
		log:       logger.New("preferencesService"),
	}
}

// GetPreferences returns the defaults when nothing was saved yet.
func (db *preferencesService) GetPreferences(ctx context.Context) (model.Preferences, error) {
	const query = `SELECT auto_refresh, refresh_interval, units, notifications
	FROM preferences
	WHERE namespace = ?`

	type row struct {
		AutoRefresh     bool   `db:"auto_refresh"`
		RefreshInterval string `db:"refresh_interval"`
		Units           string `db:"units"`
		Notifications   bool   `db:"notifications"`
	}

	var r row
	err := db.GetContext(ctx, &r, db.Rebind(query), db.namespace)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultPreferences(), nil
	}
	if err != nil {
		return model.Preferences{}, err
	}

	prefs := model.DefaultPreferences()
	prefs.AutoRefresh = r.AutoRefresh
	prefs.Notifications = r.Notifications

	if units, err := model.ParseUnits(r.Units); err == nil {
		prefs.Units = units
	} else {
		db.log.Warn().Err(err).Msg("Ignoring stored units")
	}

	if d, err := duration.Parse(r.RefreshInterval); err == nil && d.ToTimeDuration() > 0 {
		prefs.RefreshInterval = d.ToTimeDuration()
	} else {
		db.log.Warn().
			Str("refresh_interval", r.RefreshInterval).
			Msg("Ignoring stored refresh interval")
	}

	return prefs, nil
}

func (db *preferencesService) SetPreferences(ctx context.Context, preferences model.Preferences) error {
	query := upsertQuery(db.DB, "preferences",
		[]string{"namespace", "auto_refresh", "refresh_interval", "units", "notifications"})

	interval := preferences.RefreshInterval
	if interval <= 0 {
		interval = model.DefaultRefreshInterval
	}
	units := preferences.Units
	if units == "" {
		units = model.Metric
	}

	_, err := db.ExecContext(ctx, query,
		db.namespace,
		preferences.AutoRefresh,
		duration.FromTimeDuration(interval).String(),
		string(units),
		preferences.Notifications,
	)
	return err
}
