package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/docstorepb"
	"github.com/dmitrijs2005/studysync/internal/logging"
	sc "github.com/dmitrijs2005/studysync/internal/server/config"
	"github.com/dmitrijs2005/studysync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studysync/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *GRPCServer {
	t.Helper()
	cfg := &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "attachments",
		PresignExpiry:  time.Minute,
	}
	ds := services.NewDocumentService(nil, repomanager.NewMemoryRepositoryManager())
	as := services.NewAttachmentService(cfg)
	return NewGRPCServer("127.0.0.1:0", logging.NopLogger{}, ds, as, testSecret)
}

func ownerCtx(owner string) context.Context {
	return context.WithValue(context.Background(), ownerIDKey, owner)
}

func mustEncode(t *testing.T, v any) *structpb.Struct {
	t.Helper()
	s, err := docstorepb.Encode(v)
	require.NoError(t, err)
	return s
}

func TestHandler_CreateListUpdateDelete(t *testing.T) {
	s := newTestServer(t)
	ctx := ownerCtx("user-1")

	out, err := s.Create(ctx, mustEncode(t, docstorepb.CreateRequest{
		Collection: "notes",
		Fields:     map[string]any{"title": "algebra"},
	}))
	require.NoError(t, err)

	var created docstorepb.CreateResponse
	require.NoError(t, docstorepb.Decode(out, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.False(t, created.CreatedAt.AsTime().IsZero())

	_, err = s.Update(ctx, mustEncode(t, docstorepb.UpdateRequest{
		Collection: "notes",
		ID:         created.ID,
		Patch:      map[string]any{"title": "geometry"},
	}))
	require.NoError(t, err)

	out, err = s.List(ctx, mustEncode(t, docstorepb.ListRequest{Collection: "notes", OwnerID: "user-1"}))
	require.NoError(t, err)
	var listed docstorepb.ListResponse
	require.NoError(t, docstorepb.Decode(out, &listed))
	require.Len(t, listed.Documents, 1)
	assert.Equal(t, created.ID, listed.Documents[0]["id"])
	assert.Equal(t, "user-1", listed.Documents[0]["ownerId"])
	assert.Equal(t, "geometry", listed.Documents[0]["title"])

	_, err = s.Delete(ctx, mustEncode(t, docstorepb.DeleteRequest{Collection: "notes", ID: created.ID}))
	require.NoError(t, err)
	// deleting again is not an error
	_, err = s.Delete(ctx, mustEncode(t, docstorepb.DeleteRequest{Collection: "notes", ID: created.ID}))
	require.NoError(t, err)

	out, err = s.List(ctx, mustEncode(t, docstorepb.ListRequest{Collection: "notes"}))
	require.NoError(t, err)
	require.NoError(t, docstorepb.Decode(out, &listed))
	assert.Empty(t, listed.Documents)
}

func TestHandler_ListOwnerMismatch(t *testing.T) {
	s := newTestServer(t)

	_, err := s.List(ownerCtx("user-1"), mustEncode(t, docstorepb.ListRequest{Collection: "notes", OwnerID: "user-2"}))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestHandler_ErrorCodes(t *testing.T) {
	s := newTestServer(t)
	ctx := ownerCtx("user-1")

	_, err := s.List(ctx, mustEncode(t, docstorepb.ListRequest{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "missing collection")

	_, err = s.List(ctx, mustEncode(t, docstorepb.ListRequest{Collection: "notes", Direction: "sideways"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "bad direction")

	_, err = s.List(ctx, mustEncode(t, docstorepb.ListRequest{Collection: "notes", OrderField: "a;drop"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "bad order field")

	_, err = s.Update(ctx, mustEncode(t, docstorepb.UpdateRequest{
		Collection: "notes",
		ID:         "6f1c2a52-8a3e-4f57-9b55-0a3f3f4b6a11",
		Patch:      map[string]any{"title": "x"},
	}))
	assert.Equal(t, codes.NotFound, status.Code(err), "unknown id")

	_, err = s.PresignDownload(ctx, mustEncode(t, docstorepb.PresignDownloadRequest{Key: "owners/user-2/2024/01/01/x"}))
	assert.Equal(t, codes.PermissionDenied, status.Code(err), "foreign key")
}

func TestHandler_RequiresOwner(t *testing.T) {
	s := newTestServer(t)

	_, err := s.Create(context.Background(), mustEncode(t, docstorepb.CreateRequest{Collection: "notes"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestHandler_Ping(t *testing.T) {
	s := newTestServer(t)

	out, err := s.Ping(context.Background(), &structpb.Struct{})
	require.NoError(t, err)
	var resp docstorepb.PingResponse
	require.NoError(t, docstorepb.Decode(out, &resp))
	assert.Equal(t, docstorepb.StatusOK, resp.Status)
}

func TestToStatus(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrorNotFound, codes.NotFound},
		{common.ErrorForbidden, codes.PermissionDenied},
		{common.ErrMissingCollection, codes.InvalidArgument},
		{common.ErrMissingID, codes.InvalidArgument},
		{common.ErrInvalidOrderDirection, codes.InvalidArgument},
		{common.ErrInvalidOrderField, codes.InvalidArgument},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(s.toStatus(ctx, "test", tt.err)), tt.err.Error())
	}
}
