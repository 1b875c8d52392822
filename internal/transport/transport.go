// Package transport sends order requests and final confirmations to an
// external order-processing endpoint. Two implementations exist: Client
// speaks JSON over HTTP to a caller-supplied webhook, and Simulator
// fabricates plausible responses locally when no endpoint is configured.
package transport

import (
	"context"
	"fmt"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

type OrderTransport interface {
	// RequestOrder submits a draft and returns the supplier's quote.
	RequestOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Quote, error)
	// ConfirmOrder sends the final confirmation. Fire-and-forget: the
	// response body, if any, is discarded.
	ConfirmOrder(ctx context.Context, confirmation domain.FinalConfirmation) error
}

// TransportError reports an unreachable endpoint or a non-success status on
// either transport call. Status is zero when no HTTP response was received.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport: %s returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("transport: %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
