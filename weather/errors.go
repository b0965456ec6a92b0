package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Brawl345/matrixweather/utils/httpUtils"
)

var (
	ErrMissingAPIKey = errors.New("API key is required")
	ErrInvalidAPIKey = fmt.Errorf("API key must be at least %d alphanumeric characters", MinKeyLength)
	ErrCityRequired  = errors.New("city name is required")
)

// APIError is an error reported by the weather provider.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("weather API error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("weather API error: HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.Code == "401"
}

type errorBody struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

// codString normalizes cod, which the provider sends as number or string.
func codString(cod any) string {
	switch v := cod.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

func fromHttpError(httpError *httpUtils.HttpError) *APIError {
	apiError := &APIError{
		StatusCode: httpError.StatusCode,
		Code:       fmt.Sprint(httpError.StatusCode),
	}

	var body errorBody
	if err := json.Unmarshal(httpError.Body, &body); err == nil {
		if code := codString(body.Cod); code != "" {
			apiError.Code = code
		}
		apiError.Message = body.Message
	}
	return apiError
}
