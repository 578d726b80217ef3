// Package services implements the document store operations behind the
// gRPC transport.
package services

import (
	"context"
	"database/sql"
	"regexp"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/docstorepb"
	"github.com/dmitrijs2005/studysync/internal/server/models"
	"github.com/dmitrijs2005/studysync/internal/server/repositories/documents"
	"github.com/dmitrijs2005/studysync/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var orderFieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewDocumentService(db *sql.DB, repomanager repomanager.RepositoryManager) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: repomanager,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

func (s *DocumentService) repo() documents.Repository {
	return s.repomanager.Documents(s.db)
}

// parseOrder validates the List ordering. An empty field orders by
// createdAt; an empty direction is descending.
func parseOrder(field, direction string) (documents.Order, error) {
	o := documents.Order{Field: field, Desc: true}
	if o.Field == "" {
		o.Field = models.FieldCreatedAt
	}
	if !orderFieldPattern.MatchString(o.Field) {
		return o, common.ErrInvalidOrderField
	}
	switch direction {
	case "", docstorepb.Descending:
	case docstorepb.Ascending:
		o.Desc = false
	default:
		return o, common.ErrInvalidOrderDirection
	}
	return o, nil
}

// List returns the owner's documents of collection in the requested order.
func (s *DocumentService) List(ctx context.Context, ownerID, collection, orderField, direction string) ([]*models.Document, error) {
	if collection == "" {
		return nil, common.ErrMissingCollection
	}
	order, err := parseOrder(orderField, direction)
	if err != nil {
		return nil, err
	}
	return s.repo().List(ctx, collection, ownerID, order)
}

// Create stores fields as a new document with a fresh id and server
// timestamps.
func (s *DocumentService) Create(ctx context.Context, ownerID, collection string, fields map[string]any) (*models.Document, error) {
	if collection == "" {
		return nil, common.ErrMissingCollection
	}
	now := s.now()
	doc := &models.Document{
		ID:         s.newID(),
		Collection: collection,
		OwnerID:    ownerID,
		Fields:     models.UserFields(fields),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo().Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update merges patch into the document. Ids the store never issued are
// reported as not found.
func (s *DocumentService) Update(ctx context.Context, ownerID, collection, id string, patch map[string]any) error {
	if collection == "" {
		return common.ErrMissingCollection
	}
	if id == "" {
		return common.ErrMissingID
	}
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}
	return s.repo().Update(ctx, collection, ownerID, id, patch, s.now())
}

// Delete removes the document. Deleting a missing document succeeds.
func (s *DocumentService) Delete(ctx context.Context, ownerID, collection, id string) error {
	if collection == "" {
		return common.ErrMissingCollection
	}
	if id == "" {
		return common.ErrMissingID
	}
	if uuid.Validate(id) != nil {
		return nil
	}
	return s.repo().Delete(ctx, collection, ownerID, id)
}
