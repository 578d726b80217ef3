// Package models holds the server-side document representation.
package models

import (
	"time"

	"github.com/dmitrijs2005/studysync/internal/docstorepb"
)

// Field names managed by the store. Clients cannot set them.
const (
	FieldID        = "id"
	FieldOwnerID   = "ownerId"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Document is one stored record of a collection.
type Document struct {
	ID         string
	Collection string
	OwnerID    string
	Fields     map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserFields returns fields without the store-managed keys.
func UserFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case FieldID, FieldOwnerID, FieldCreatedAt, FieldUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}

// Wire renders d as sent to clients: user fields plus id, ownerId and the
// two timestamps as {seconds, nanos} wrappers.
func (d *Document) Wire() map[string]any {
	out := make(map[string]any, len(d.Fields)+4)
	for k, v := range d.Fields {
		out[k] = v
	}
	out[FieldID] = d.ID
	out[FieldOwnerID] = d.OwnerID
	out[FieldCreatedAt] = docstorepb.NewTimestamp(d.CreatedAt)
	out[FieldUpdatedAt] = docstorepb.NewTimestamp(d.UpdatedAt)
	return out
}
