// Package weather fetches current conditions from the OpenWeather API.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/utils/httpUtils"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	MinKeyLength   = 32

	DefaultMaxRetries = 3
	DefaultRetryBase  = time.Second
	DefaultRetryCap   = 30 * time.Second
)

var (
	log        = logger.New("weather")
	keyPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

type (
	Config struct {
		APIKey     string
		BaseURL    string
		Units      model.Units
		HTTPClient *http.Client
	}

	Client struct {
		apiKey     string
		baseURL    string
		units      model.Units
		httpClient *http.Client

		maxRetries int
		retryBase  time.Duration
		retryCap   time.Duration
	}
)

// ValidateAPIKey checks the key format without contacting the provider.
func ValidateAPIKey(key string) error {
	if key == "" {
		return ErrMissingAPIKey
	}
	if len(key) < MinKeyLength || !keyPattern.MatchString(key) {
		return ErrInvalidAPIKey
	}
	return nil
}

// New returns a client. An empty key is accepted here and rejected on the
// first request; a malformed key is rejected immediately.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey != "" {
		if err := ValidateAPIKey(cfg.APIKey); err != nil {
			return nil, err
		}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	units := cfg.Units
	if units == "" {
		units = model.Metric
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		units:      units,
		httpClient: cfg.HTTPClient,
		maxRetries: DefaultMaxRetries,
		retryBase:  DefaultRetryBase,
		retryCap:   DefaultRetryCap,
	}, nil
}

func (c *Client) Units() model.Units {
	return c.units
}

// WithUnits returns a copy requesting measurements in units.
func (c *Client) WithUnits(units model.Units) *Client {
	next := *c
	if units != "" {
		next.units = units
	}
	return &next
}

// WithRetries returns a copy with a different retry policy for ByCoords.
func (c *Client) WithRetries(maxRetries int, base, limit time.Duration) *Client {
	next := *c
	next.maxRetries = max(maxRetries, 0)
	next.retryBase = base
	next.retryCap = limit
	return &next
}

// ByCoords fetches the weather at a coordinate. Transient failures are
// retried with exponential backoff; authentication failures are not.
func (c *Client) ByCoords(ctx context.Context, lat, lon float64) (*model.Weather, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var result *model.Weather
	err := c.retry(ctx, func() error {
		var err error
		result, err = c.fetch(ctx, q)
		return err
	})
	return result, err
}

// ByCity fetches the weather for a city name. It is not retried.
func (c *Client) ByCity(ctx context.Context, city string) (*model.Weather, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrCityRequired
	}

	q := url.Values{}
	q.Set("q", city)
	return c.fetch(ctx, q)
}

func (c *Client) fetch(ctx context.Context, q url.Values) (*model.Weather, error) {
	if err := ValidateAPIKey(c.apiKey); err != nil {
		return nil, err
	}

	q.Set("appid", c.apiKey)
	q.Set("units", c.units.APIValue())
	requestUrl := fmt.Sprintf("%s/weather?%s", c.baseURL, q.Encode())

	var response model.Weather
	err := httpUtils.MakeRequest(ctx, httpUtils.RequestOptions{
		Method:   httpUtils.MethodGet,
		URL:      requestUrl,
		Response: &response,
		Client:   c.httpClient,
	})
	if err != nil {
		var httpError *httpUtils.HttpError
		if errors.As(err, &httpError) {
			return nil, fromHttpError(httpError)
		}
		return nil, fmt.Errorf("error while fetching weather: %w", err)
	}

	if code := codString(response.Cod); code != "" && code != "200" {
		return nil, &APIError{StatusCode: http.StatusOK, Code: code, Message: "unexpected response code"}
	}

	return &response, nil
}

// RetryDelay is min(base·2^attempt, limit) for the zero-based attempt.
func RetryDelay(attempt int, base, limit time.Duration) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	if d > limit {
		return limit
	}
	return d
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || attempt >= c.maxRetries || !retryable(err) {
			return err
		}

		delay := RetryDelay(attempt, c.retryBase, c.retryCap)
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Weather request failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func retryable(err error) bool {
	if errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrInvalidAPIKey) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiError *APIError
	if errors.As(err, &apiError) && apiError.Unauthorized() {
		return false
	}
	return true
}
