package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/docstorepb"
	"github.com/dmitrijs2005/studysync/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const ownerIDKey ctxKey = "ownerID"

// publicMethods can be called without an access token.
var publicMethods = map[string]bool{
	docstorepb.PingFullMethod: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	ownerID, err := auth.OwnerFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(context.WithValue(ctx, ownerIDKey, ownerID), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}

// ownerFromContext returns the owner placed in ctx by the interceptor.
func ownerFromContext(ctx context.Context) (string, error) {
	owner, ok := ctx.Value(ownerIDKey).(string)
	if !ok || owner == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return owner, nil
}
