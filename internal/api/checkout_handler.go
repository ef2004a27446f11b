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
)

// CheckoutHandler drives the multi-step checkout over HTTP. The session
// state lives server side; each endpoint is one user action.
type CheckoutHandler struct {
	checkouts *checkout.Manager
	logger    *zap.Logger
}

// NewCheckoutHandler creates the checkout handler.
func NewCheckoutHandler(checkouts *checkout.Manager, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts, logger: logger}
}

// checkoutView is the session state response body.
type checkoutView struct {
	Step          domain.CheckoutStep      `json:"step"`
	Shipping      *domain.ShippingInfo     `json:"shipping,omitempty"`
	PaymentMethod domain.PaymentMethod     `json:"payment_method,omitempty"`
	Promo         *domain.PromoApplication `json:"promo,omitempty"`
	Totals        domain.TotalsView        `json:"totals"`
	Order         *domain.Order            `json:"order,omitempty"`
}

func viewOf(s *checkout.Session) *checkoutView {
	return &checkoutView{
		Step:          s.Step(),
		Shipping:      s.Shipping(),
		PaymentMethod: s.PaymentMethod(),
		Promo:         s.AppliedPromo(),
		Totals:        s.Totals().View(),
		Order:         s.Order(),
	}
}

// session fetches the caller's session, writing a 404 when none exists.
func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	s, ok := h.checkouts.Session(user.ID)
	if !ok {
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "no active checkout session", reqID, "")
		return nil, false
	}
	return s, true
}

// Start handles POST /api/checkout/start.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	s, err := h.checkouts.Start(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "cart is empty", reqID, "")
		case errors.Is(err, checkout.ErrSubmitInProgress):
			resp.Error(w, http.StatusConflict, resp.CodeConflict, "order submission already in progress", reqID, "")
		default:
			h.logger.Error("start checkout failed", zap.String("request_id", reqID), zap.Error(err))
			resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "start checkout failed", reqID, "")
		}
		return
	}

	resp.Created(w, viewOf(s), reqID, "")
}

// Get handles GET /api/checkout.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	s, ok := h.session(w, r)
	if !ok {
		return
	}
	resp.OK(w, viewOf(s), reqID, "")
}

// Shipping handles POST /api/checkout/shipping. Field errors come back as
// a 400 with the per-field details in the data payload.
func (h *CheckoutHandler) Shipping(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var info domain.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	fieldErrs, err := s.SubmitShipping(info)
	if err != nil {
		h.writeTransitionError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		resp.ErrorWithData(w, http.StatusBadRequest, resp.CodeInvalidParam, "shipping info invalid", fieldErrs, reqID, "")
		return
	}

	resp.OK(w, viewOf(s), reqID, "")
}

// paymentRequest selects the payment method. The card handle is an opaque
// reference from the payment collector; raw card data never reaches us.
type paymentRequest struct {
	Method     domain.PaymentMethod `json:"method"`
	CardHandle string               `json:"card_handle"`
}

// Payment handles POST /api/checkout/payment.
func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	if err := s.SelectPayment(req.Method, req.CardHandle); err != nil {
		h.writeTransitionError(w, r, err)
		return
	}

	resp.OK(w, viewOf(s), reqID, "")
}

// Back handles POST /api/checkout/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Back(); err != nil {
		h.writeTransitionError(w, r, err)
		return
	}

	resp.OK(w, viewOf(s), reqID, "")
}

// promoRequest applies a promo code to the session.
type promoRequest struct {
	Code string `json:"code"`
}

// Promo handles POST /api/checkout/promo.
func (h *CheckoutHandler) Promo(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req promoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	if _, err := s.ApplyPromo(req.Code); err != nil {
		if errors.Is(err, promo.ErrInvalidPromoCode) {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid promo code", reqID, "")
			return
		}
		h.writeTransitionError(w, r, err)
		return
	}

	resp.OK(w, viewOf(s), reqID, "")
}

// PlaceOrder handles POST /api/checkout/place-order.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	order, err := s.PlaceOrder(r.Context())
	if err != nil {
		var cartErr *checkout.CartInvalidError
		var payErr *checkout.PaymentDeclinedError
		var subErr *checkout.OrderSubmissionError
		switch {
		case errors.As(err, &cartErr):
			resp.ErrorWithData(w, http.StatusConflict, resp.CodeConflict, "cart validation failed", cartErr.Result, reqID, "")
		case errors.As(err, &payErr):
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, payErr.Error(), reqID, "")
		case errors.As(err, &subErr):
			h.logger.Error("order submission failed",
				zap.String("request_id", reqID),
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
			resp.Error(w, http.StatusBadGateway, resp.CodeInternalError, "order submission failed", reqID, "")
		case errors.Is(err, checkout.ErrEmptyCart):
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "cart is empty", reqID, "")
		default:
			h.writeTransitionError(w, r, err)
		}
		return
	}

	resp.Created(w, order, reqID, "")
}

// Discard handles DELETE /api/checkout.
func (h *CheckoutHandler) Discard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	h.checkouts.Discard(user.ID)
	resp.OK(w, nil, reqID, "")
}

// writeTransitionError maps the session's sentinel errors to HTTP.
func (h *CheckoutHandler) writeTransitionError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.RequestIDFromContext(r.Context())

	switch {
	case errors.Is(err, checkout.ErrSessionComplete):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "checkout session already completed", reqID, "")
	case errors.Is(err, checkout.ErrSubmitInProgress):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "order submission already in progress", reqID, "")
	case errors.Is(err, checkout.ErrInvalidTransition):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "action not allowed from current step", reqID, "")
	case errors.Is(err, checkout.ErrPaymentMethodRequired):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "payment method required", reqID, "")
	case errors.Is(err, checkout.ErrCardDetailsRequired):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "card details required", reqID, "")
	default:
		if middleware.HandleTimeout(w, r) {
			return
		}
		h.logger.Error("checkout action failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "checkout action failed", reqID, "")
	}
}
