// Package documents persists collection documents on the server.
package documents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studysync/internal/server/models"
)

// Order selects the List sort key. Field is a top-level document field;
// createdAt and updatedAt map to their columns. Desc reverses the order.
type Order struct {
	Field string
	Desc  bool
}

// Repository stores documents scoped by collection and owner. Update of a
// missing document returns common.ErrorNotFound; Delete of a missing
// document is not an error.
type Repository interface {
	List(ctx context.Context, collection, ownerID string, order Order) ([]*models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, collection, ownerID, id string, patch map[string]any, now time.Time) error
	Delete(ctx context.Context, collection, ownerID, id string) error
}
