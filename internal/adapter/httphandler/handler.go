package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/port"
)

const defaultDealsLimit = 20

// A ProductsHandler accepts scraped products and hands them to the feed.
type ProductsHandler struct {
	feeder port.ProductsFeeder
}

func RegisterProducts(mux *http.ServeMux, feeder port.ProductsFeeder) {
	h := ProductsHandler{feeder}
	mux.HandleFunc("POST /v1/products", h.PostProducts)
}

func (h ProductsHandler) PostProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProducts"
	log := slog.With("op", op)

	var ps []ProductIntake
	err := json.NewDecoder(r.Body).Decode(&ps)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err = h.feeder.FeedProducts(r.Context(), h.toDomain(ps))
	if err != nil {
		http.Error(
			w, "failed to accept products", http.StatusServiceUnavailable,
		)
		log.Error("failed to feed products", "err", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	if _, err = w.Write([]byte("Accepted")); err != nil {
		log.Error("failed to write response body", "err", err)
		return
	}

	log.Info("accepted", "nProducts", len(ps))
}

func (h ProductsHandler) toDomain(ps []ProductIntake) (domainPs []domain.Product) {
	for _, p := range ps {
		dp := domain.Product{
			ProductID:   p.ID,
			Name:        p.Name,
			SKU:         p.SKU,
			Brand:       p.Brand,
			Category:    p.Category,
			Description: p.Description,
			Price: domain.ProductPrice{
				Amount:   p.Price,
				Currency: p.Currency,
			},
			OriginalPrice:   p.OriginalPrice,
			DiscountPercent: p.DiscountPercent,
			PackSize: domain.PackSize{
				Quantity: p.PackSizeQuantity,
				Unit:     p.PackSizeUnit,
			},
			ImageURL:  p.ImageURL,
			PageURL:   p.PageURL,
			InStock:   p.InStock,
			StoreID:   p.StoreID,
			ScrapedAt: p.ScrapedAt,
		}

		if dp.ProductID == "" && dp.PageURL != "" {
			dp.ProductID = domain.IDFromURL(dp.PageURL)
		}
		if dp.ProductID == "" {
			dp.ProductID = uuid.NewString()
		}

		if dp.PackSize.Quantity == 0 && p.PackSizeRaw != "" {
			if sz, ok := domain.ParsePackSize(p.PackSizeRaw); ok {
				dp.PackSize = sz
			}
		}

		domainPs = append(domainPs, dp)
	}
	return domainPs
}

// A CatalogHandler serves the browse read endpoints.
type CatalogHandler struct {
	reader port.CatalogReader
	prices port.PriceViewer
}

func RegisterCatalog(
	mux *http.ServeMux, reader port.CatalogReader, prices port.PriceViewer,
) {
	h := CatalogHandler{reader, prices}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/search", h.SearchByName)
	mux.HandleFunc("GET /v1/products/category", h.SearchByCategory)
	mux.HandleFunc("GET /v1/products/{id}/price", h.GetTrackedPrice)
	mux.HandleFunc("GET /v1/stats", h.GetStats)
	mux.HandleFunc("GET /v1/deals", h.GetDeals)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	ps, err := h.reader.ListProducts(r.Context())
	if err != nil {
		http.Error(w, "failed to read catalog", http.StatusInternalServerError)
		log.Error("failed to list products", "err", err)
		return
	}

	writeJSON(w, log, productsFromDomain(ps))
}

func (h CatalogHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.SearchByName"
	log := slog.With("op", op)

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name parameter is required", http.StatusBadRequest)
		return
	}

	ps, err := h.reader.SearchProductsByName(r.Context(), name)
	if err != nil {
		http.Error(w, "failed to read catalog", http.StatusInternalServerError)
		log.Error("failed to search products", "name", name, "err", err)
		return
	}

	if len(ps) == 0 {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	writeJSON(w, log, productsFromDomain(ps))
}

// SearchByCategory responds 404 when the category holds no products.
// Browse clients treat that as an empty result, not a failure.
func (h CatalogHandler) SearchByCategory(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.SearchByCategory"
	log := slog.With("op", op)

	category := r.URL.Query().Get("category")
	if category == "" {
		http.Error(w, "category parameter is required", http.StatusBadRequest)
		return
	}

	ps, err := h.reader.SearchProductsByCategory(r.Context(), category)
	if err != nil {
		http.Error(w, "failed to read catalog", http.StatusInternalServerError)
		log.Error("failed to search products", "category", category, "err", err)
		return
	}

	if len(ps) == 0 {
		http.Error(w, "no products in category", http.StatusNotFound)
		return
	}

	writeJSON(w, log, productsFromDomain(ps))
}

func (h CatalogHandler) GetTrackedPrice(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetTrackedPrice"
	log := slog.With("op", op)

	productID := r.PathValue("id")

	price, found, err := h.prices.LastTrackedPrice(r.Context(), productID)
	if err != nil {
		http.Error(w, "failed to read price", http.StatusInternalServerError)
		log.Error("failed to read tracked price", "productID", productID, "err", err)
		return
	}

	if !found {
		http.Error(w, "product is not tracked", http.StatusNotFound)
		return
	}

	writeJSON(w, log, TrackedPrice{ProductID: productID, Price: price})
}

func (h CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetStats"
	log := slog.With("op", op)

	st, err := h.reader.CatalogStats(r.Context())
	if err != nil {
		http.Error(w, "failed to read catalog", http.StatusInternalServerError)
		log.Error("failed to read stats", "err", err)
		return
	}

	writeJSON(w, log, statsFromDomain(st))
}

func (h CatalogHandler) GetDeals(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetDeals"
	log := slog.With("op", op)

	limit := defaultDealsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ds, err := h.reader.RecentPriceDrops(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to read deals", http.StatusInternalServerError)
		log.Error("failed to read price drops", "err", err)
		return
	}

	writeJSON(w, log, dropsFromDomain(ds))
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
