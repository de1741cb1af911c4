// Package order submits the cart to the backend and runs the checkout flow.
package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// User-facing failure messages.
const (
	MsgConnectionError = "connection error"
	MsgGenericFailure  = "failed to submit order"
)

// Backend posts an order. *api.Client satisfies it.
type Backend interface {
	SubmitOrder(ctx context.Context, requestID string, req types.OrderRequest) (types.OrderResponse, error)
}

// Result is the outcome of a submission. Error is set when Success is false.
type Result struct {
	Success   bool
	Error     string
	RequestID string
}

// Submitter sends orders.
type Submitter struct {
	backend Backend
	newID   func() string
}

// NewSubmitter creates a submitter over backend.
func NewSubmitter(backend Backend) *Submitter {
	return &Submitter{backend: backend, newID: uuid.NewString}
}

// Submit sends the phone and cart lines to the backend and interprets the
// success flag. It never returns an error: transport and decode failures
// become a connection-error result. The cart is not touched.
func (s *Submitter) Submit(ctx context.Context, phone string, lines []types.OrderLine) Result {
	reqID := s.newID()
	log := logging.WithRequestID(logging.CategoryOrder, reqID)
	if lines == nil {
		lines = []types.OrderLine{}
	}

	req := types.OrderRequest{Phone: NormalizePhone(phone), Cart: lines}
	log.Info("Submitting order: %d lines", len(lines))
	logging.Audit().OrderSubmitted(reqID, len(lines))

	start := time.Now()
	resp, err := s.backend.SubmitOrder(ctx, reqID, req)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("Order submission failed after %v: %v", elapsed, err)
		logging.Audit().OrderFailed(reqID, err)
		return Result{Success: false, Error: MsgConnectionError, RequestID: reqID}
	}

	if resp.Success == 1 {
		log.Info("Order accepted in %v", elapsed)
		logging.Audit().OrderResult(reqID, len(lines), elapsed, true, "")
		return Result{Success: true, RequestID: reqID}
	}

	msg := resp.Error
	if msg == "" {
		msg = MsgGenericFailure
	}
	log.Warn("Order rejected: %s", msg)
	logging.Audit().OrderResult(reqID, len(lines), elapsed, false, msg)
	return Result{Success: false, Error: msg, RequestID: reqID}
}
