package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/docstorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// toStatus maps service errors to gRPC status errors. Unknown errors are
// logged and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrMissingCollection),
		errors.Is(err, common.ErrMissingID),
		errors.Is(err, common.ErrInvalidOrderDirection),
		errors.Is(err, common.ErrInvalidOrderField):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}

func decode(in *structpb.Struct, v any) error {
	if err := docstorepb.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := docstorepb.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *GRPCServer) Ping(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return encode(docstorepb.PingResponse{Status: docstorepb.StatusOK})
}

func (s *GRPCServer) List(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var req docstorepb.ListRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if req.OwnerID != "" && req.OwnerID != owner {
		return nil, status.Error(codes.PermissionDenied, "owner mismatch")
	}

	docs, err := s.documents.List(ctx, owner, req.Collection, req.OrderField, req.Direction)
	if err != nil {
		return nil, s.toStatus(ctx, "List", err)
	}

	resp := docstorepb.ListResponse{Documents: make([]map[string]any, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, d.Wire())
	}
	return encode(resp)
}

func (s *GRPCServer) Create(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var req docstorepb.CreateRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	doc, err := s.documents.Create(ctx, owner, req.Collection, req.Fields)
	if err != nil {
		return nil, s.toStatus(ctx, "Create", err)
	}

	s.logger.Info(ctx, "document created", "collection", doc.Collection, "id", doc.ID)
	return encode(docstorepb.CreateResponse{
		ID:        doc.ID,
		CreatedAt: docstorepb.NewTimestamp(doc.CreatedAt),
		UpdatedAt: docstorepb.NewTimestamp(doc.UpdatedAt),
	})
}

func (s *GRPCServer) Update(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var req docstorepb.UpdateRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := s.documents.Update(ctx, owner, req.Collection, req.ID, req.Patch); err != nil {
		return nil, s.toStatus(ctx, "Update", err)
	}
	return encode(docstorepb.Empty{})
}

func (s *GRPCServer) Delete(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var req docstorepb.DeleteRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := s.documents.Delete(ctx, owner, req.Collection, req.ID); err != nil {
		return nil, s.toStatus(ctx, "Delete", err)
	}
	return encode(docstorepb.Empty{})
}

func (s *GRPCServer) PresignUpload(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	key, url, err := s.attachments.PresignUpload(ctx, owner)
	if err != nil {
		return nil, s.toStatus(ctx, "PresignUpload", err)
	}
	return encode(docstorepb.PresignUploadResponse{Key: key, URL: url})
}

func (s *GRPCServer) PresignDownload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var req docstorepb.PresignDownloadRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	url, err := s.attachments.PresignDownload(ctx, owner, req.Key)
	if err != nil {
		return nil, s.toStatus(ctx, "PresignDownload", err)
	}
	return encode(docstorepb.PresignDownloadResponse{URL: url})
}
