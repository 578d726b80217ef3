// Package docstorepb is the gRPC contract of the remote document store.
//
// Every method exchanges google.protobuf.Struct messages. The typed request
// and response structs in messages.go are converted to and from Struct with
// Encode and Decode.
package docstorepb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "studysync.docstore.DocumentStore"

const (
	ListFullMethod            = "/" + ServiceName + "/List"
	CreateFullMethod          = "/" + ServiceName + "/Create"
	UpdateFullMethod          = "/" + ServiceName + "/Update"
	DeleteFullMethod          = "/" + ServiceName + "/Delete"
	PingFullMethod            = "/" + ServiceName + "/Ping"
	PresignUploadFullMethod   = "/" + ServiceName + "/PresignUpload"
	PresignDownloadFullMethod = "/" + ServiceName + "/PresignDownload"
)

type DocumentStoreClient interface {
	List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PresignUpload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PresignDownload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type documentStoreClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentStoreClient(cc grpc.ClientConnInterface) DocumentStoreClient {
	return &documentStoreClient{cc: cc}
}

func (c *documentStoreClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListFullMethod, in, opts)
}

func (c *documentStoreClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CreateFullMethod, in, opts)
}

func (c *documentStoreClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, UpdateFullMethod, in, opts)
}

func (c *documentStoreClient) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, DeleteFullMethod, in, opts)
}

func (c *documentStoreClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PingFullMethod, in, opts)
}

func (c *documentStoreClient) PresignUpload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PresignUploadFullMethod, in, opts)
}

func (c *documentStoreClient) PresignDownload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PresignDownloadFullMethod, in, opts)
}

type DocumentStoreServer interface {
	List(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PresignUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PresignDownload(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedDocumentStoreServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedDocumentStoreServer struct{}

func (UnimplementedDocumentStoreServer) List(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}
func (UnimplementedDocumentStoreServer) Create(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedDocumentStoreServer) Update(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Update not implemented")
}
func (UnimplementedDocumentStoreServer) Delete(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedDocumentStoreServer) Ping(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedDocumentStoreServer) PresignUpload(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignUpload not implemented")
}
func (UnimplementedDocumentStoreServer) PresignDownload(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignDownload not implemented")
}

func RegisterDocumentStoreServer(s grpc.ServiceRegistrar, srv DocumentStoreServer) {
	s.RegisterService(&DocumentStoreServiceDesc, srv)
}

type serverMethod func(DocumentStoreServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call serverMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DocumentStoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DocumentStoreServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var DocumentStoreServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: unaryHandler(ListFullMethod, DocumentStoreServer.List)},
		{MethodName: "Create", Handler: unaryHandler(CreateFullMethod, DocumentStoreServer.Create)},
		{MethodName: "Update", Handler: unaryHandler(UpdateFullMethod, DocumentStoreServer.Update)},
		{MethodName: "Delete", Handler: unaryHandler(DeleteFullMethod, DocumentStoreServer.Delete)},
		{MethodName: "Ping", Handler: unaryHandler(PingFullMethod, DocumentStoreServer.Ping)},
		{MethodName: "PresignUpload", Handler: unaryHandler(PresignUploadFullMethod, DocumentStoreServer.PresignUpload)},
		{MethodName: "PresignDownload", Handler: unaryHandler(PresignDownloadFullMethod, DocumentStoreServer.PresignDownload)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "studysync/docstore.proto",
}
