package model

import (
	"context"
	"errors"
)

var ErrNoCachedWeather = errors.New("no cached weather")

type WeatherCacheService interface {
	GetCachedWeather(ctx context.Context) (CachedWeather, error)
	SetCachedWeather(ctx context.Context, cached CachedWeather) error
	DeleteCachedWeather(ctx context.Context) error
}
