package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type weatherCacheService struct {
	*sqlx.DB
	namespace string
	log       zerolog.Logger
}

func NewWeatherCacheService(db *sqlx.DB, namespace string) *weatherCacheService {
	return &weatherCacheService{
		DB:        db,
		namespace: namespace,
		log:       logger.New("weatherCacheService"),
	}
}

func (db *weatherCacheService) GetCachedWeather(ctx context.Context) (model.CachedWeather, error) {
	const query = `SELECT payload, effect, fetched_at
	FROM weather_cache
	WHERE namespace = ?`

	type row struct {
		Payload   string `db:"payload"`
		Effect    string `db:"effect"`
		FetchedAt int64  `db:"fetched_at"`
	}

	var r row
	err := db.GetContext(ctx, &r, db.Rebind(query), db.namespace)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CachedWeather{}, model.ErrNoCachedWeather
	}
	if err != nil {
		return model.CachedWeather{}, err
	}

	var weather model.Weather
	if err := json.Unmarshal([]byte(r.Payload), &weather); err != nil {
		return model.CachedWeather{}, fmt.Errorf("corrupt weather cache: %w", err)
	}

	e, ok := effect.ParseType(r.Effect)
	if !ok {
		e = weather.Effect()
	}

	return model.CachedWeather{
		Weather:   weather,
		Effect:    e,
		FetchedAt: time.UnixMilli(r.FetchedAt),
	}, nil
}

func (db *weatherCacheService) SetCachedWeather(ctx context.Context, cached model.CachedWeather) error {
	payload, err := json.Marshal(cached.Weather)
	if err != nil {
		return err
	}

	query := upsertQuery(db.DB, "weather_cache",
		[]string{"namespace", "payload", "effect", "fetched_at"})

	_, err = db.ExecContext(ctx, query,
		db.namespace,
		string(payload),
		string(cached.Effect),
		cached.FetchedAt.UnixMilli(),
	)
	return err
}

func (db *weatherCacheService) DeleteCachedWeather(ctx context.Context) error {
	const query = `DELETE FROM weather_cache WHERE namespace = ?`
	_, err := db.ExecContext(ctx, db.Rebind(query), db.namespace)
	return err
}
