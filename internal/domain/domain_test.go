package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	t.Run("parses and formats ISO-8601", func(t *testing.T) {
		d, err := ParseDate("2025-06-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.String() != "2025-06-01" {
			t.Errorf("expected 2025-06-01, got %s", d)
		}
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		if _, err := ParseDate("01-Jun-2025"); err == nil {
			t.Error("expected error for DD-MMM-YYYY input")
		}
		if _, err := ParseDate("2025/06/01"); err == nil {
			t.Error("expected error for slash-separated input")
		}
	})

	t.Run("adds days across month boundaries", func(t *testing.T) {
		d := NewDate(2025, time.June, 30).AddDays(2)
		if d.String() != "2025-07-02" {
			t.Errorf("expected 2025-07-02, got %s", d)
		}
	})

	t.Run("counts days between dates", func(t *testing.T) {
		from := NewDate(2025, time.June, 1)
		to := NewDate(2025, time.June, 4)
		if got := from.DaysUntil(to); got != 3 {
			t.Errorf("expected 3 days, got %d", got)
		}
	})

	t.Run("round-trips through JSON", func(t *testing.T) {
		data, err := json.Marshal(NewDate(2025, time.June, 1))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `"2025-06-01"` {
			t.Errorf("unexpected JSON: %s", data)
		}

		var d Date
		if err := json.Unmarshal(data, &d); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if d.String() != "2025-06-01" {
			t.Errorf("expected 2025-06-01, got %s", d)
		}
	})

	t.Run("zero date marshals to empty string", func(t *testing.T) {
		data, err := json.Marshal(Date{})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `""` {
			t.Errorf("unexpected JSON: %s", data)
		}

		var d Date
		if err := json.Unmarshal([]byte(`""`), &d); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !d.IsZero() {
			t.Error("expected zero date")
		}
	})
}

func TestPrice(t *testing.T) {
	t.Run("unmarshals a bare number of currency units", func(t *testing.T) {
		var p Price
		if err := json.Unmarshal([]byte(`12.5`), &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != 1250 {
			t.Errorf("expected 1250 cents, got %d", p)
		}
	})

	t.Run("unmarshals a string with a trailing unit token", func(t *testing.T) {
		var p Price
		if err := json.Unmarshal([]byte(`"10.99 USD"`), &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != 1099 {
			t.Errorf("expected 1099 cents, got %d", p)
		}
	})

	t.Run("unmarshals a plain decimal string", func(t *testing.T) {
		var p Price
		if err := json.Unmarshal([]byte(`"15.99"`), &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != 1599 {
			t.Errorf("expected 1599 cents, got %d", p)
		}
	})

	t.Run("rejects garbage and negative prices", func(t *testing.T) {
		var p Price
		if err := json.Unmarshal([]byte(`"cheap"`), &p); err == nil {
			t.Error("expected error for non-numeric price")
		}
		if err := json.Unmarshal([]byte(`-3`), &p); err == nil {
			t.Error("expected error for negative price")
		}
	})

	t.Run("marshals as a decimal string", func(t *testing.T) {
		data, err := json.Marshal(Price(3750))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `"37.50"` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("multiplies by quantity", func(t *testing.T) {
		if got := Price(1250).Mul(3); got != 3750 {
			t.Errorf("expected 3750, got %d", got)
		}
	})
}

func TestNewOrderDraft(t *testing.T) {
	draft := NewOrderDraft()
	if draft.PartID != "" {
		t.Errorf("expected empty part id, got %q", draft.PartID)
	}
	if !draft.DeliveryDate.IsZero() {
		t.Error("expected zero delivery date")
	}
	if draft.Quantity != DefaultQuantity {
		t.Errorf("expected quantity %d, got %d", DefaultQuantity, draft.Quantity)
	}
}
