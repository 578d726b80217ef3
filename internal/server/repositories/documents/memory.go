package documents

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/server/models"
)

// MemoryRepository keeps documents in memory. It backs the server when no
// database is configured and is used in tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]*models.Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: map[string]*models.Document{}}
}

func copyDoc(d *models.Document) *models.Document {
	cp := *d
	cp.Fields = make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		cp.Fields[k] = v
	}
	return &cp
}

func (r *MemoryRepository) List(_ context.Context, collection, ownerID string, order Order) ([]*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Document
	for _, d := range r.docs {
		if d.Collection == collection && d.OwnerID == ownerID {
			out = append(out, copyDoc(d))
		}
	}

	less := func(a, b *models.Document) bool {
		switch order.Field {
		case "", models.FieldCreatedAt:
			return a.CreatedAt.Before(b.CreatedAt)
		case models.FieldUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return fmt.Sprint(a.Fields[order.Field]) < fmt.Sprint(b.Fields[order.Field])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; ok {
		return fmt.Errorf("duplicate document id %s", doc.ID)
	}
	cp := copyDoc(doc)
	cp.Fields = models.UserFields(cp.Fields)
	r.docs[doc.ID] = cp
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, collection, ownerID, id string, patch map[string]any, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.Collection != collection || d.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	for k, v := range models.UserFields(patch) {
		d.Fields[k] = v
	}
	d.UpdatedAt = now
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, collection, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok && d.Collection == collection && d.OwnerID == ownerID {
		delete(r.docs, id)
	}
	return nil
}
