package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/port"
)

var _ port.CatalogSource = (*RESTCatalog)(nil)

type RESTOpt func(*RESTCatalog)

func WithHTTPClient(hc *http.Client) RESTOpt {
	return func(c *RESTCatalog) {
		c.client = hc
	}
}

// RESTCatalog reads the catalog over the HTTP API.
//
// A non-success response status maps to domain.ErrTransport, with one
// exception: 404 on the category search means "no products in that
// category" and yields an empty, error-free result.
type RESTCatalog struct {
	baseURL string
	client  *http.Client
}

func NewRESTCatalog(baseURL string, opts ...RESTOpt) *RESTCatalog {
	c := &RESTCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RESTCatalog) FetchAll(ctx context.Context) ([]domain.Product, error) {
	const op = "RESTCatalog.FetchAll"
	return c.get(ctx, op, c.baseURL+"/products", false)
}

func (c *RESTCatalog) SearchByCategory(ctx context.Context, term string) ([]domain.Product, error) {
	const op = "RESTCatalog.SearchByCategory"
	u := c.baseURL + "/products/category?category=" + url.QueryEscape(term)
	return c.get(ctx, op, u, true)
}

func (c *RESTCatalog) get(ctx context.Context, op, u string, emptyOn404 bool) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
	}
	defer res.Body.Close()

	if emptyOn404 && res.StatusCode == http.StatusNotFound {
		return []domain.Product{}, nil
	}
	if res.StatusCode < http.StatusOK || res.StatusCode > 299 {
		return nil, fmt.Errorf(
			"%s: %w: unexpected status %d", op, domain.ErrTransport, res.StatusCode,
		)
	}

	var pps []productPayload
	if err := json.NewDecoder(res.Body).Decode(&pps); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
	}
	return toDomainProducts(pps), nil
}
