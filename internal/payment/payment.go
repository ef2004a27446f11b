// Package payment defines the payment-capture collaborator interface and a
// simulated gateway. Real gateway integration is out of scope for the
// storefront; capture is simulated end to end.
package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

// CaptureResult is the outcome of one capture attempt. A failed capture is
// a business result, not an error; errors are reserved for transport
// failures.
type CaptureResult struct {
	Success        bool   `json:"success"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// Gateway captures a payment for the given amount and billing details.
type Gateway interface {
	Capture(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal, billing domain.ShippingInfo) (*CaptureResult, error)
}

// SimulatedGateway approves every capture and mints an opaque transaction
// reference, matching the storefront's simulated payment flow.
type SimulatedGateway struct {
	logger *zap.Logger
}

// NewSimulatedGateway creates the simulated gateway.
func NewSimulatedGateway(logger *zap.Logger) *SimulatedGateway {
	return &SimulatedGateway{logger: logger}
}

// Capture approves the payment and returns a transaction reference.
func (g *SimulatedGateway) Capture(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal, billing domain.ShippingInfo) (*CaptureResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref := "txn_" + uuid.New().String()
	g.logger.Info("payment captured",
		zap.String("method", string(method)),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("transaction_ref", ref),
	)

	return &CaptureResult{Success: true, TransactionRef: ref}, nil
}
