// Package geo acquires the user's location, either from the public IP
// address or by geocoding a free-form query.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/utils/httpUtils"
)

const (
	DefaultLocatorURL = "http://ip-api.com/json"
	DefaultTimeout    = 10 * time.Second
	// DefaultMaxAge is how long a located position is reused.
	DefaultMaxAge = 5 * time.Minute
)

var log = logger.New("geo")

type (
	ipResponse struct {
		Status      string  `json:"status"`
		Message     string  `json:"message"`
		Country     string  `json:"country"`
		CountryCode string  `json:"countryCode"`
		City        string  `json:"city"`
		Lat         float64 `json:"lat"`
		Lon         float64 `json:"lon"`
	}

	// IPLocator finds the approximate location of this machine.
	IPLocator struct {
		URL     string
		Timeout time.Duration
		MaxAge  time.Duration
		Client  *http.Client

		mu       sync.Mutex
		last     model.Location
		lastTime time.Time
		now      func() time.Time
	}
)

func NewIPLocator(url string) *IPLocator {
	if url == "" {
		url = DefaultLocatorURL
	}
	return &IPLocator{
		URL:     url,
		Timeout: DefaultTimeout,
		MaxAge:  DefaultMaxAge,
		now:     time.Now,
	}
}

func (l *IPLocator) Locate(ctx context.Context) (model.Location, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if !l.lastTime.IsZero() && now.Sub(l.lastTime) < l.MaxAge {
		return l.last, nil
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var response ipResponse
	err := httpUtils.MakeRequest(ctx, httpUtils.RequestOptions{
		Method:   httpUtils.MethodGet,
		URL:      l.URL,
		Response: &response,
		Client:   l.Client,
	})
	if err != nil {
		return model.Location{}, classify(err)
	}

	if response.Status != "" && response.Status != "success" {
		log.Debug().
			Str("status", response.Status).
			Str("message", response.Message).
			Msg("IP location lookup failed")
		return model.Location{}, fmt.Errorf("%w: %s", ErrUnavailable, response.Message)
	}

	country := response.CountryCode
	if country == "" {
		country = response.Country
	}
	l.last = model.Location{
		Latitude:  response.Lat,
		Longitude: response.Lon,
		City:      response.City,
		Country:   country,
	}
	l.lastTime = now
	return l.last, nil
}

func (l *IPLocator) clock() time.Time {
	if l.now == nil {
		return time.Now()
	}
	return l.now()
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var httpError *httpUtils.HttpError
	if errors.As(err, &httpError) && httpError.StatusCode == http.StatusForbidden {
		return ErrPermissionDenied
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
