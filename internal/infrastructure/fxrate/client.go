// Package fxrate cliente HTTP del proveedor externo de tasas de cambio.
package fxrate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/yuandi-erp/pkg/config"
)

var tracer = otel.Tracer("github.com/jhoicas/yuandi-erp/internal/infrastructure/fxrate")

// ratesResponse forma de GET /{fecha}?base=XXX&symbols=YYY.
type ratesResponse struct {
	Success bool                       `json:"success"`
	Base    string                     `json:"base"`
	Date    string                     `json:"date"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

// Client consulta tasas históricas. Implementa cashbook.ExternalRateProvider.
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient construye el cliente a partir de la configuración FX.
func NewClient(cfg config.FXConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(1).
		SetHeader("Accept", "application/json")
	return &Client{http: c, apiKey: cfg.APIKey}
}

// FetchRate devuelve cuántas unidades de baseCurrency vale una unidad de currency en date.
func (c *Client) FetchRate(ctx context.Context, currency, baseCurrency string, date time.Time) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "fxrate.FetchRate", trace.WithAttributes(
		attribute.String("fx.currency", currency),
		attribute.String("fx.base", baseCurrency),
	))
	defer span.End()

	params := map[string]string{
		"base":    currency,
		"symbols": baseCurrency,
	}
	if c.apiKey != "" {
		params["access_key"] = c.apiKey
	}

	var out ratesResponse
	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := req.Get("/" + date.Format("2006-01-02"))
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, fmt.Errorf("fxrate: consulta %s/%s: %w", currency, baseCurrency, err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("fxrate: respuesta %d del proveedor", resp.StatusCode())
	}
	if out.Error != nil {
		return decimal.Zero, fmt.Errorf("fxrate: proveedor %d: %s", out.Error.Code, out.Error.Info)
	}
	rate, ok := out.Rates[baseCurrency]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("fxrate: sin tasa %s/%s para %s", currency, baseCurrency, date.Format("2006-01-02"))
	}
	return rate, nil
}
