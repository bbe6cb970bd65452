// internal/services/product_catalog.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/javajoker/favorites-api/internal/config"
	"github.com/javajoker/favorites-api/internal/models"
)

const maxCatalogResponseBytes = 1 << 20

// ProductCatalog looks products up in the external catalog. One instance is
// shared by every request so connections are pooled.
type ProductCatalog struct {
	baseURL string
	client  *http.Client
}

type catalogProduct struct {
	ID          *int    `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func NewProductCatalog(cfg config.CatalogConfig) *ProductCatalog {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &ProductCatalog{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
	}
}

// FetchProduct returns the product, or nil when the catalog has no product
// with that id. Non-2xx answers and transport failures wrap ErrGateway.
func (s *ProductCatalog) FetchProduct(ctx context.Context, productID int) (*models.Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.FetchProduct",
		trace.WithAttributes(attribute.Int("product.id", productID)),
	)
	defer span.End()

	start := time.Now()
	product, err := s.fetch(ctx, productID)

	outcome := "found"
	switch {
	case err != nil:
		outcome = "error"
		recordSpanError(span, err)
	case product == nil:
		outcome = "absent"
	}
	catalogFetchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("catalog.outcome", outcome))

	return product, err
}

func (s *ProductCatalog) fetch(ctx context.Context, productID int) (*models.Product, error) {
	url := s.baseURL + "/products/" + strconv.Itoa(productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, Err(ErrGateway, err, "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogResponseBytes))
	if err != nil {
		return nil, Err(ErrGateway, err, "reading catalog response")
	}

	// the catalog answers unknown ids with an empty body
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, Err(ErrGateway, nil, "catalog returned status %d for product %d", resp.StatusCode, productID)
	}

	var payload catalogProduct
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, Err(ErrGateway, err, "decoding catalog response")
	}
	if payload.ID == nil {
		return nil, nil
	}

	return &models.Product{
		ID:          *payload.ID,
		Title:       payload.Title,
		Price:       payload.Price,
		Description: payload.Description,
		Category:    payload.Category,
		Image:       payload.Image,
	}, nil
}
