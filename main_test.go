package main

import (
	"bytes"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
)

func TestLogResponse(t *testing.T) {
	t.Run("should log request and response details when log level is DEBUG", func(t *testing.T) {
		// given
		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)
		old := slog.SetLogLoggerLevel(slog.LevelDebug)
		defer slog.SetLogLoggerLevel(old)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"answer": 42}`))
		}))
		defer ts.Close()
		rhc := retryablehttp.NewClient()
		rhc.ResponseLogHook = logResponse
		// when
		resp, err := rhc.Get(ts.URL)
		// then
		if assert.NoError(t, err) {
			defer resp.Body.Close()
			s := buf.String()
			assert.Contains(t, s, "HTTP response")
			assert.Contains(t, s, "answer")
		}
	})
	t.Run("should log HTTP errors at warn level", func(t *testing.T) {
		// given
		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)
		old := slog.SetLogLoggerLevel(slog.LevelInfo)
		defer slog.SetLogLoggerLevel(old)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad request", http.StatusBadRequest)
		}))
		defer ts.Close()
		rhc := retryablehttp.NewClient()
		rhc.RetryMax = 0
		rhc.ResponseLogHook = logResponse
		// when
		resp, err := rhc.Get(ts.URL)
		// then
		if assert.NoError(t, err) {
			defer resp.Body.Close()
			assert.Contains(t, buf.String(), "400")
		}
	})
}

func TestFileExists(t *testing.T) {
	t.Run("reports an existing path", func(t *testing.T) {
		assert.True(t, fileExists(t.TempDir()))
	})
	t.Run("reports a missing path", func(t *testing.T) {
		assert.False(t, fileExists("/no/such/path"))
	})
}
