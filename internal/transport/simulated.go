package transport

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

const (
	// Unit price band in cents, matching the supplier's usual range.
	minUnitPrice = 1099
	maxUnitPrice = 1599

	defaultDelay    = 300 * time.Millisecond
	defaultPackSize = 10
)

// Simulator fabricates quotes locally when no webhook endpoint is
// configured. Responses are derived from the draft and the injected random
// source, so a fixed seed gives reproducible quotes: unit price uniform in
// [minUnitPrice, maxUnitPrice] cents and the confirmed delivery date shifted
// 2-4 days past the requested one. Apart from context cancellation it
// cannot fail.
type Simulator struct {
	delay    time.Duration
	packSize int

	mu  sync.Mutex
	rng *rand.Rand
}

type SimulatorOption func(*Simulator)

func WithDelay(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.delay = d
	}
}

func WithRandSource(src rand.Source) SimulatorOption {
	return func(s *Simulator) {
		s.rng = rand.New(src)
	}
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		delay:    defaultDelay,
		packSize: defaultPackSize,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Simulator) RequestOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Quote, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	price := domain.Price(minUnitPrice + s.rng.Int63n(maxUnitPrice-minUnitPrice+1))
	offset := 2 + s.rng.Intn(3)
	s.mu.Unlock()

	return &domain.Quote{
		QuoteID:       "ORD-" + uuid.New().String()[:8],
		PartID:        draft.PartID,
		UnitPrice:     price,
		ConfirmedDate: draft.DeliveryDate.AddDays(offset),
		MinOrderQty:   1,
		OrderQuantity: draft.Quantity,
		PackCount:     (draft.Quantity + s.packSize - 1) / s.packSize,
		Expedite:      draft.Expedite,
	}, nil
}

func (s *Simulator) ConfirmOrder(ctx context.Context, confirmation domain.FinalConfirmation) error {
	return s.sleep(ctx)
}

func (s *Simulator) sleep(ctx context.Context) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return &TransportError{Op: "simulated call", Err: ctx.Err()}
	case <-timer.C:
		return nil
	}
}
