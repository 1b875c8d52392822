package catalog

import (
	"context"
	"testing"
	"time"
)

func TestStaticProvider(t *testing.T) {
	t.Run("lists the configured parts", func(t *testing.T) {
		provider := NewStaticProvider(DefaultParts(), 0)

		parts, err := provider.ListParts(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(parts) != 8 {
			t.Fatalf("expected 8 parts, got %d", len(parts))
		}
		if parts[0].ID != "P001" || parts[0].Name != "Aluminum Bracket" {
			t.Errorf("unexpected first part: %+v", parts[0])
		}
	})

	t.Run("finds a part by id", func(t *testing.T) {
		provider := NewStaticProvider(DefaultParts(), 0)

		part, ok := provider.FindPart("P003")
		if !ok {
			t.Fatal("expected P003 to exist")
		}
		if part.Name != "Copper Fitting" {
			t.Errorf("unexpected part: %+v", part)
		}

		if _, ok := provider.FindPart("P999"); ok {
			t.Error("expected P999 to be missing")
		}
	})

	t.Run("load delay respects context cancellation", func(t *testing.T) {
		provider := NewStaticProvider(DefaultParts(), time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := provider.ListParts(ctx); err == nil {
			t.Error("expected error for cancelled context")
		}
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		provider := NewStaticProvider(DefaultParts(), 0)

		parts, err := provider.ListParts(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		parts[0].Name = "mutated"

		part, _ := provider.FindPart("P001")
		if part.Name != "Aluminum Bracket" {
			t.Errorf("provider data mutated through returned slice: %+v", part)
		}
	})
}
