// Package client talks to the remote document store.
//
// Client is the collaborator contract used by the synchronizer. GRPCClient
// implements it over the docstorepb service: it injects the owner's access
// token through a unary interceptor, bounds every call with a timeout,
// retries idempotent calls while the server is unavailable and maps gRPC
// status codes to the sentinel errors ErrUnavailable, ErrUnauthorized and
// ErrNotFound.
package client
