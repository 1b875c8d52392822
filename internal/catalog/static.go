package catalog

import (
	"context"
	"time"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

// DefaultParts is the built-in demo catalog.
func DefaultParts() []domain.Part {
	return []domain.Part{
		{ID: "P001", Name: "Aluminum Bracket", Description: "Heavy duty aluminum bracket"},
		{ID: "P002", Name: "Steel Coupling", Description: "Industrial grade steel coupling"},
		{ID: "P003", Name: "Copper Fitting", Description: "Standard copper fitting for plumbing"},
		{ID: "P004", Name: "Titanium Bolt Set", Description: "High tensile strength titanium bolts"},
		{ID: "P005", Name: "Plastic Washer Pack", Description: "Durable plastic washers"},
		{ID: "P006", Name: "Rubber Gasket", Description: "Heat resistant rubber gasket"},
		{ID: "P007", Name: "Carbon Fiber Panel", Description: "Lightweight carbon fiber panel"},
		{ID: "P008", Name: "Glass Panel", Description: "Tempered glass panel"},
	}
}

// StaticProvider serves a fixed part list from memory, with a small load
// delay to mimic network latency.
type StaticProvider struct {
	parts []domain.Part
	byID  map[string]domain.Part
	delay time.Duration
}

func NewStaticProvider(parts []domain.Part, delay time.Duration) *StaticProvider {
	byID := make(map[string]domain.Part, len(parts))
	for _, part := range parts {
		byID[part.ID] = part
	}

	return &StaticProvider{
		parts: parts,
		byID:  byID,
		delay: delay,
	}
}

func (p *StaticProvider) ListParts(ctx context.Context) ([]domain.Part, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	parts := make([]domain.Part, len(p.parts))
	copy(parts, p.parts)
	return parts, nil
}

func (p *StaticProvider) FindPart(id string) (domain.Part, bool) {
	part, ok := p.byID[id]
	return part, ok
}
