package httpUtils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Brawl345/matrixweather/logger"
)

const (
	MethodGet  = http.MethodGet
	MethodPost = http.MethodPost

	// maxErrorBody caps how much of a failed response is kept
	maxErrorBody = 4096
)

var (
	log               = logger.New("httpUtils")
	DefaultHttpClient *http.Client
)

func init() {
	DefaultHttpClient = createHTTPClient()
}

func createHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 7 * time.Second
	transport.ResponseHeaderTimeout = 15 * time.Second
	transport.MaxIdleConnsPerHost = 20
	transport.IdleConnTimeout = 5 * time.Minute

	client := &http.Client{
		Transport: transport,
	}

	return client
}

type RequestOptions struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is JSON encoded unless it is an io.Reader
	Body     any
	Response any
	Client   *http.Client
}

// MakeRequest performs the request and decodes a JSON response into
// opts.Response. Non-2xx responses return *HttpError.
func MakeRequest(ctx context.Context, opts RequestOptions) error {
	log.Debug().
		Str("method", opts.Method).
		Str("url", opts.URL).
		Send()

	var reqBody io.Reader
	isJson := false
	switch v := opts.Body.(type) {
	case nil:
	case io.Reader:
		reqBody = v
	default:
		jsonData, err := json.Marshal(v)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(jsonData)
		isJson = true
	}

	method := opts.Method
	if method == "" {
		method = MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, opts.URL, reqBody)
	if err != nil {
		return err
	}

	if isJson {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	httpClient := DefaultHttpClient
	if opts.Client != nil {
		httpClient = opts.Client
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Err(err).Msg("Failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HttpError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		}
	}

	if opts.Response == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, opts.Response); err != nil {
		return err
	}

	log.Debug().
		Str("url", opts.URL).
		Interface("result", opts.Response).
		Send()
	return nil
}
