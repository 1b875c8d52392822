// Package catalog supplies the list of orderable parts. Loading is
// asynchronous; lookups run against the last-loaded set so the workflow can
// resolve part names without touching the network.
package catalog

import (
	"context"
	"errors"

	"github.com/joao-fontenele/part-order-service/internal/domain"
)

// ErrCatalogUnavailable means the part list failed to load. The form stays
// usable but the part selector is disabled until a reload succeeds.
var ErrCatalogUnavailable = errors.New("part catalog unavailable")

type Provider interface {
	ListParts(ctx context.Context) ([]domain.Part, error)
	FindPart(id string) (domain.Part, bool)
}
