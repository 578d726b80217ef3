package docstorepb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestEncodeDecode_CreateRequest(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 500, time.UTC)
	req := CreateRequest{
		Collection: "notes",
		Fields: EncodeFields(map[string]any{
			"title":     "Exam prep",
			"ownerId":   "user-42",
			"createdAt": created,
			"tags":      []any{"math", "week-3"},
		}),
	}

	s, err := Encode(req)
	require.NoError(t, err)
	assert.Equal(t, "notes", s.GetFields()["collection"].GetStringValue())

	var back CreateRequest
	require.NoError(t, Decode(s, &back))
	assert.Equal(t, "notes", back.Collection)
	assert.Equal(t, "Exam prep", back.Fields["title"])
	assert.Equal(t, []any{"math", "week-3"}, back.Fields["tags"])

	wrapper, ok := back.Fields["createdAt"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, created.Unix(), wrapper["seconds"])
	assert.EqualValues(t, 500, wrapper["nanos"])
}

func TestDecode_TimestampIntoTypedField(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 250_000_000, time.UTC)
	s, err := Encode(CreateResponse{ID: "doc-1", CreatedAt: NewTimestamp(now), UpdatedAt: NewTimestamp(now)})
	require.NoError(t, err)

	var resp CreateResponse
	require.NoError(t, Decode(s, &resp))
	assert.Equal(t, "doc-1", resp.ID)
	assert.True(t, now.Equal(resp.CreatedAt.AsTime()))
}

func TestDecode_NilStruct(t *testing.T) {
	var resp PingResponse
	require.NoError(t, Decode(nil, &resp))
	assert.Empty(t, resp.Status)
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := Encode(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestEncodeFields_Instants(t *testing.T) {
	now := time.Unix(1700000000, 7).UTC()
	var nilTime *time.Time

	out := EncodeFields(map[string]any{
		"a": now,
		"b": &now,
		"c": timestamppb.New(now),
		"d": nilTime,
		"e": "plain",
	})

	want := NewTimestamp(now)
	assert.Equal(t, want, out["a"])
	assert.Equal(t, want, out["b"])
	assert.Equal(t, want, out["c"])
	assert.Nil(t, out["d"])
	assert.Equal(t, "plain", out["e"])
}
