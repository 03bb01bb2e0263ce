package fxrate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yuandi-erp/pkg/config"
)

func TestFetchRate_DevuelveTasaDelProveedor(t *testing.T) {
	var gotPath, gotBase, gotSymbols, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBase = r.URL.Query().Get("base")
		gotSymbols = r.URL.Query().Get("symbols")
		gotKey = r.URL.Query().Get("access_key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"base":"CNY","date":"2026-03-02","rates":{"KRW":186.25}}`))
	}))
	defer srv.Close()

	c := NewClient(config.FXConfig{BaseURL: srv.URL, APIKey: "k-123", Timeout: time.Second})
	rate, err := c.FetchRate(context.Background(), "CNY", "KRW", time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "186.25", rate.String())
	assert.Equal(t, "/2026-03-02", gotPath)
	assert.Equal(t, "CNY", gotBase)
	assert.Equal(t, "KRW", gotSymbols)
	assert.Equal(t, "k-123", gotKey)
}

func TestFetchRate_ErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(config.FXConfig{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.FetchRate(context.Background(), "CNY", "KRW", time.Now())
	assert.Error(t, err)
}

func TestFetchRate_SinTasaParaLaMoneda(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"rates":{}}`))
	}))
	defer srv.Close()

	c := NewClient(config.FXConfig{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.FetchRate(context.Background(), "CNY", "KRW", time.Now())
	assert.Error(t, err)
}

func TestFetchRate_ErrorReportadoPorProveedor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":101,"info":"invalid access key"}}`))
	}))
	defer srv.Close()

	c := NewClient(config.FXConfig{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.FetchRate(context.Background(), "CNY", "KRW", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid access key")
}
