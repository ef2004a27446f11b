package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/cart"
	"github.com/teesbyshelsea/storefront/internal/catalog"
	"github.com/teesbyshelsea/storefront/internal/checkout"
	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/middleware"
	"github.com/teesbyshelsea/storefront/internal/pricing"
	"github.com/teesbyshelsea/storefront/internal/resp"
)

// CartHandler serves the authenticated user's cart. All unit prices come
// from the catalog; clients only name products and variants.
type CartHandler struct {
	checkouts *checkout.Manager
	catalog   catalog.Provider
	validator *cart.Validator
	rules     pricing.Ruleset
	logger    *zap.Logger
}

// NewCartHandler creates the cart handler.
func NewCartHandler(
	checkouts *checkout.Manager,
	provider catalog.Provider,
	validator *cart.Validator,
	rules pricing.Ruleset,
	logger *zap.Logger,
) *CartHandler {
	return &CartHandler{
		checkouts: checkouts,
		catalog:   provider,
		validator: validator,
		rules:     rules,
		logger:    logger,
	}
}

// cartView is the cart response body.
type cartView struct {
	Items  []domain.LineItem `json:"items"`
	Totals domain.TotalsView `json:"totals"`
}

func (h *CartHandler) view(store *cart.Store) *cartView {
	items := store.Items()
	if items == nil {
		items = []domain.LineItem{}
	}
	return &cartView{
		Items:  items,
		Totals: store.Totals(decimal.Zero, h.rules).View(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	store := h.checkouts.CartFor(r.Context(), user.ID)
	resp.OK(w, h.view(store), reqID, "")
}

// addItemRequest is the payload for adding a line to the cart.
type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// AddItem handles POST /api/cart/items. Lines with the same
// (product, size, color) are merged.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}
	if req.ProductID == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "product_id is required", reqID, "")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
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
	if req.Size != "" && !product.HasSize(req.Size) {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam,
			fmt.Sprintf("size %q not available for %q", req.Size, product.Name), reqID, "")
		return
	}
	if req.Color != "" && !product.HasColor(req.Color) {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam,
			fmt.Sprintf("color %q not available for %q", req.Color, product.Name), reqID, "")
		return
	}

	store := h.checkouts.CartFor(r.Context(), user.ID)
	unitPrice := pricing.UnitPriceFor(product, user.Tier)
	store.AddItem(r.Context(), product.ID, product.Name, unitPrice, req.Size, req.Color, req.Quantity)

	resp.OK(w, h.view(store), reqID, "")
}

// updateItemRequest addresses a line by its merge key.
type updateItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/items. A quantity of zero or less
// removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}
	if req.ProductID == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "product_id is required", reqID, "")
		return
	}

	store := h.checkouts.CartFor(r.Context(), user.ID)
	store.UpdateQuantity(r.Context(), req.ProductID, req.Size, req.Color, req.Quantity)

	resp.OK(w, h.view(store), reqID, "")
}

// RemoveItem handles DELETE /api/cart/items. The merge key comes from
// query parameters.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	q := r.URL.Query()
	productID := q.Get("product_id")
	if productID == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "product_id is required", reqID, "")
		return
	}

	store := h.checkouts.CartFor(r.Context(), user.ID)
	store.RemoveItem(r.Context(), productID, q.Get("size"), q.Get("color"))

	resp.OK(w, h.view(store), reqID, "")
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	store := h.checkouts.CartFor(r.Context(), user.ID)
	store.Clear(r.Context())

	resp.OK(w, h.view(store), reqID, "")
}

// Validate handles POST /api/cart/validate: the cart is checked against
// the current catalog, with stale prices corrected in place.
func (h *CartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	store := h.checkouts.CartFor(r.Context(), user.ID)
	result, err := h.validator.Validate(r.Context(), store, user.Tier)
	if err != nil {
		if middleware.HandleTimeout(w, r) {
			return
		}
		h.logger.Error("cart validation failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "cart validation failed", reqID, "")
		return
	}

	resp.OK(w, result, reqID, "")
}
