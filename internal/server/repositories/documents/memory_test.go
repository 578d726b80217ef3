package documents

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

	for i, title := range []string{"b", "a", "c"} {
		require.NoError(t, r.Create(ctx, &models.Document{
			ID: title, Collection: "notes", OwnerID: "u1",
			Fields:    map[string]any{"title": title, "id": "ignored"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, r.Create(ctx, &models.Document{ID: "x", Collection: "notes", OwnerID: "u2", Fields: map[string]any{}}))
	assert.Error(t, r.Create(ctx, &models.Document{ID: "a", Collection: "notes", OwnerID: "u1"}))

	ids := func(docs []*models.Document) []string {
		var out []string
		for _, d := range docs {
			out = append(out, d.ID)
		}
		return out
	}

	docs, err := r.List(ctx, "notes", "u1", Order{Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(docs))
	assert.NotContains(t, docs[0].Fields, "id")

	docs, err = r.List(ctx, "notes", "u1", Order{Field: "title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(docs))

	docs[0].Fields["title"] = "mutated"
	require.NoError(t, r.Update(ctx, "notes", "u1", "b", map[string]any{"title": "z"}, base.Add(time.Hour)))
	docs, err = r.List(ctx, "notes", "u1", Order{Field: "updatedAt", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "z", docs[0].Fields["title"])
	assert.Equal(t, "a", docs[2].Fields["title"])

	assert.ErrorIs(t, r.Update(ctx, "notes", "u2", "b", nil, base), common.ErrorNotFound)

	require.NoError(t, r.Delete(ctx, "notes", "u2", "b"))
	require.NoError(t, r.Delete(ctx, "notes", "u1", "b"))
	require.NoError(t, r.Delete(ctx, "notes", "u1", "b"))
	docs, err = r.List(ctx, "notes", "u1", Order{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(docs))
}
