package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/checkout"
	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/middleware"
	"github.com/teesbyshelsea/storefront/internal/promo"
	"github.com/teesbyshelsea/storefront/internal/resp"
	"github.com/teesbyshelsea/storefront/internal/service"
)

// OrderHandler serves order history and the direct order endpoint, which
// prices and places an order in a single request without a checkout
// session.
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates the order handler.
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	var input service.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), user, &input)
	if err != nil {
		var shipErr *service.ShippingInvalidError
		switch {
		case errors.As(err, &shipErr):
			resp.ErrorWithData(w, http.StatusBadRequest, resp.CodeInvalidParam, "shipping info invalid", shipErr.Fields, reqID, "")
		case errors.Is(err, service.ErrEmptyOrder),
			errors.Is(err, service.ErrInsufficientStock),
			errors.Is(err, service.ErrVariantUnavailable),
			errors.Is(err, service.ErrPaymentFailed),
			errors.Is(err, checkout.ErrPaymentMethodRequired),
			errors.Is(err, checkout.ErrCardDetailsRequired):
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
		case errors.Is(err, promo.ErrInvalidPromoCode):
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid promo code", reqID, "")
		case errors.Is(err, service.ErrProductNotFound):
			resp.Error(w, http.StatusNotFound, resp.CodeNotFound, err.Error(), reqID, "")
		default:
			if middleware.HandleTimeout(w, r) {
				return
			}
			h.logger.Error("create order failed", zap.String("request_id", reqID), zap.Error(err))
			resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "create order failed", reqID, "")
		}
		return
	}

	resp.Created(w, order, reqID, "")
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	orders, err := h.orderService.ListOrders(user.ID)
	if err != nil {
		h.logger.Error("list orders failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "list orders failed", reqID, "")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	resp.OK(w, orders, reqID, "")
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	order, err := h.orderService.GetOrder(user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "order not found", reqID, "")
			return
		}
		h.logger.Error("get order failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "get order failed", reqID, "")
		return
	}

	resp.OK(w, order, reqID, "")
}
