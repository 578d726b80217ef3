package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/studysync/internal/docstorepb"
	"github.com/stretchr/testify/assert"
)

func TestUserFields_DropsManagedKeys(t *testing.T) {
	in := map[string]any{"id": "x", "ownerId": "o", "createdAt": 1, "updatedAt": 2, "title": "Limits"}
	assert.Equal(t, map[string]any{"title": "Limits"}, UserFields(in))
	assert.Len(t, in, 5)
}

func TestDocument_Wire(t *testing.T) {
	created := time.Date(2024, 9, 1, 8, 0, 0, 500, time.UTC)
	d := &Document{
		ID:        "d1",
		OwnerID:   "user-1",
		Fields:    map[string]any{"title": "Limits"},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	w := d.Wire()
	assert.Equal(t, "d1", w["id"])
	assert.Equal(t, "user-1", w["ownerId"])
	assert.Equal(t, "Limits", w["title"])
	assert.Equal(t, docstorepb.NewTimestamp(created), w["createdAt"])
	assert.Equal(t, docstorepb.NewTimestamp(created.Add(time.Hour)), w["updatedAt"])
	assert.NotContains(t, d.Fields, "id")
}
