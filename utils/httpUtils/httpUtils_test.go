package httpUtils

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMakeRequestDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("Expected header to be forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name":"Dubai"}`)
	}))
	defer srv.Close()

	var result struct {
		Name string `json:"name"`
	}
	err := MakeRequest(context.Background(), RequestOptions{
		URL:      srv.URL,
		Headers:  map[string]string{"X-Test": "yes"},
		Response: &result,
	})
	if err != nil {
		t.Fatalf("MakeRequest failed: %v", err)
	}
	if result.Name != "Dubai" {
		t.Errorf("Expected Dubai, got %q", result.Name)
	}
}

func TestMakeRequestReturnsHttpError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"cod":401,"message":"Invalid API key"}`)
	}))
	defer srv.Close()

	err := MakeRequest(context.Background(), RequestOptions{
		Method:   MethodGet,
		URL:      srv.URL,
		Response: &struct{}{},
	})

	var httpError *HttpError
	if !errors.As(err, &httpError) {
		t.Fatalf("Expected *HttpError, got %v", err)
	}
	if httpError.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", httpError.StatusCode)
	}
	if string(httpError.Body) != `{"cod":401,"message":"Invalid API key"}` {
		t.Errorf("Expected body to be kept, got %q", httpError.Body)
	}
}

func TestMakeRequestPostsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	var echo map[string]int
	err := MakeRequest(context.Background(), RequestOptions{
		Method:   MethodPost,
		URL:      srv.URL,
		Body:     map[string]int{"n": 3},
		Response: &echo,
	})
	if err != nil {
		t.Fatalf("MakeRequest failed: %v", err)
	}
	if echo["n"] != 3 {
		t.Errorf("Expected echoed body, got %v", echo)
	}
}

func TestMakeRequestHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := MakeRequest(ctx, RequestOptions{Method: MethodGet, URL: "http://127.0.0.1:1"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
