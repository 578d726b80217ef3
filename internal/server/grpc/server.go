// Package grpc exposes the document store over gRPC.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/studysync/internal/docstorepb"
	"github.com/dmitrijs2005/studysync/internal/logging"
	"github.com/dmitrijs2005/studysync/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	docstorepb.UnimplementedDocumentStoreServer
	address     string
	documents   *services.DocumentService
	attachments *services.AttachmentService
	logger      logging.Logger
	jwtSecret   []byte
}

func NewGRPCServer(a string, l logging.Logger, ds *services.DocumentService, as *services.AttachmentService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		documents:   ds,
		attachments: as,
		jwtSecret:   []byte(secretKey),
	}
}

// newServer builds the grpc.Server with interceptors and the service
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	docstorepb.RegisterDocumentStoreServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	<-stopped
	return nil
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}
