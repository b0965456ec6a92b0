package sql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type locationService struct {
	*sqlx.DB
	namespace string
	log       zerolog.Logger
}

func NewLocationService(db *sqlx.DB, namespace string) *locationService {
	return &locationService{
		DB:        db,
		namespace: namespace,
		log:       logger.New("locationService"),
	}
}

func (db *locationService) GetLocation(ctx context.Context) (model.Location, error) {
	const query = `SELECT latitude, longitude, city, country
	FROM locations
	WHERE namespace = ?`

	type row struct {
		Lat     float64        `db:"latitude"`
		Lng     float64        `db:"longitude"`
		City    sql.NullString `db:"city"`
		Country sql.NullString `db:"country"`
	}

	var r row
	err := db.GetContext(ctx, &r, db.Rebind(query), db.namespace)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Location{}, model.ErrLocationNotSet
	}
	if err != nil {
		return model.Location{}, err
	}

	return model.Location{
		Latitude:  r.Lat,
		Longitude: r.Lng,
		City:      r.City.String,
		Country:   r.Country.String,
	}, nil
}

func (db *locationService) SetLocation(ctx context.Context, location model.Location) error {
	query := upsertQuery(db.DB, "locations",
		[]string{"namespace", "latitude", "longitude", "city", "country", "updated_at"})

	_, err := db.ExecContext(ctx, query,
		db.namespace,
		location.Latitude,
		location.Longitude,
		NewNullString(location.City),
		NewNullString(location.Country),
		time.Now().UnixMilli(),
	)
	if err != nil {
		return err
	}

	db.log.Debug().
		Str("location", location.String()).
		Msg("Location saved")
	return nil
}

func (db *locationService) DeleteLocation(ctx context.Context) error {
	const query = `DELETE FROM locations WHERE namespace = ?`
	_, err := db.ExecContext(ctx, db.Rebind(query), db.namespace)
	return err
}
