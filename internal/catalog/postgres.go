package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

// PostgresProvider loads the catalog from a parts table. ListParts refreshes
// an in-process cache so FindPart stays a synchronous lookup against the
// last-loaded set.
type PostgresProvider struct {
	db *sql.DB

	mu   sync.RWMutex
	byID map[string]domain.Part
}

func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{
		db:   db,
		byID: make(map[string]domain.Part),
	}
}

func (p *PostgresProvider) ListParts(ctx context.Context) ([]domain.Part, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, description
		FROM parts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var parts []domain.Part
	for rows.Next() {
		var part domain.Part
		var description sql.NullString
		if err := rows.Scan(&part.ID, &part.Name, &description); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
		}
		part.Description = description.String
		parts = append(parts, part)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	p.mu.Lock()
	byID := make(map[string]domain.Part, len(parts))
	for _, part := range parts {
		byID[part.ID] = part
	}
	p.byID = byID
	p.mu.Unlock()

	return parts, nil
}

func (p *PostgresProvider) FindPart(id string) (domain.Part, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	part, ok := p.byID[id]
	return part, ok
}
