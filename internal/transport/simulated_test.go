package transport

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

func TestSimulator_RequestOrder(t *testing.T) {
	t.Run("price band and date offset with a fixed seed", func(t *testing.T) {
		sim := NewSimulator(
			WithDelay(time.Millisecond),
			WithRandSource(rand.NewSource(42)),
		)

		draft := domain.OrderDraft{
			PartID:       "P002",
			DeliveryDate: domain.NewDate(2025, time.June, 1),
			Quantity:     5,
		}

		for i := 0; i < 100; i++ {
			quote, err := sim.RequestOrder(context.Background(), draft)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if quote.UnitPrice < minUnitPrice || quote.UnitPrice > maxUnitPrice {
				t.Fatalf("unit price %d outside [%d, %d]", quote.UnitPrice, minUnitPrice, maxUnitPrice)
			}

			offset := draft.DeliveryDate.DaysUntil(quote.ConfirmedDate)
			if offset < 2 || offset > 4 {
				t.Fatalf("date offset %d outside [2, 4]", offset)
			}

			total := quote.UnitPrice.Mul(quote.OrderQuantity)
			if total < domain.Price(minUnitPrice)*domain.Price(draft.Quantity) {
				t.Fatalf("total %d below minimum unit price times quantity", total)
			}
		}
	})

	t.Run("no endpoint scenario", func(t *testing.T) {
		sim := NewSimulator(
			WithDelay(10*time.Millisecond),
			WithRandSource(rand.NewSource(1)),
		)

		draft := domain.OrderDraft{
			PartID:       "P001",
			DeliveryDate: domain.NewDate(2025, time.June, 1),
			Quantity:     3,
		}

		start := time.Now()
		quote, err := sim.RequestOrder(context.Background(), draft)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
			t.Errorf("expected at least the simulated delay, finished in %s", elapsed)
		}

		if quote.PartID != "P001" {
			t.Errorf("expected part P001, got %s", quote.PartID)
		}
		if quote.OrderQuantity != 3 {
			t.Errorf("expected order quantity 3, got %d", quote.OrderQuantity)
		}

		earliest := domain.NewDate(2025, time.June, 3)
		latest := domain.NewDate(2025, time.June, 5)
		if quote.ConfirmedDate.Before(earliest) || quote.ConfirmedDate.After(latest) {
			t.Errorf("confirmed date %s outside [%s, %s]", quote.ConfirmedDate, earliest, latest)
		}
		if quote.QuoteID == "" {
			t.Error("expected a quote id")
		}
	})

	t.Run("echoes the expedite flag", func(t *testing.T) {
		sim := NewSimulator(WithDelay(time.Millisecond), WithRandSource(rand.NewSource(7)))

		draft := domain.OrderDraft{
			PartID:       "P003",
			DeliveryDate: domain.NewDate(2025, time.July, 10),
			Quantity:     2,
			Expedite:     true,
		}

		quote, err := sim.RequestOrder(context.Background(), draft)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !quote.Expedite {
			t.Error("expected expedite echoed")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		sim := NewSimulator(WithDelay(time.Second))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sim.RequestOrder(ctx, domain.OrderDraft{})
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("expected TransportError, got %v", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled in chain, got %v", err)
		}
	})
}

func TestSimulator_ConfirmOrder(t *testing.T) {
	sim := NewSimulator(WithDelay(time.Millisecond))

	if err := sim.ConfirmOrder(context.Background(), domain.FinalConfirmation{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
