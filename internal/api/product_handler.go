package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/catalog"
	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/middleware"
	"github.com/teesbyshelsea/storefront/internal/resp"
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	catalog catalog.Provider
	logger  *zap.Logger
}

// NewProductHandler creates the product handler.
func NewProductHandler(provider catalog.Provider, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: provider, logger: logger}
}

// List handles GET /api/products with optional category, search, and
// featured filters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	q := r.URL.Query()
	filter := domain.ProductFilter{
		Category:     q.Get("category"),
		Search:       q.Get("search"),
		FeaturedOnly: q.Get("featured") == "true",
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		if middleware.HandleTimeout(w, r) {
			return
		}
		h.logger.Error("list products failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "list products failed", reqID, "")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	resp.OK(w, products, reqID, "")
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if middleware.HandleTimeout(w, r) {
			return
		}
		h.logger.Error("get product failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "get product failed", reqID, "")
		return
	}
	if product == nil {
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, "")
		return
	}

	resp.OK(w, product, reqID, "")
}
