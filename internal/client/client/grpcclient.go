package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/docstorepb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	DefaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	defaultBaseBackoff = 200 * time.Millisecond
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      docstorepb.DocumentStoreClient

	timeout     time.Duration
	maxAttempts int
	baseBackoff time.Duration
	dialOpts    []grpc.DialOption

	mu          sync.RWMutex
	accessToken string
}

type Option func(*GRPCClient)

// WithTimeout bounds each remote call.
func WithTimeout(d time.Duration) Option {
	return func(c *GRPCClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetry sets how many times idempotent calls are attempted while the
// server is unavailable, and the first backoff interval.
func WithRetry(maxAttempts int, base time.Duration) Option {
	return func(c *GRPCClient) {
		c.maxAttempts = maxAttempts
		c.baseBackoff = base
	}
}

// WithAccessToken sets the initial token.
func WithAccessToken(token string) Option {
	return func(c *GRPCClient) { c.accessToken = token }
}

// WithDialOptions appends extra dial options, e.g. a bufconn dialer.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOpts = append(c.dialOpts, opts...) }
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL: endpointURL,
		timeout:     DefaultTimeout,
		maxAttempts: defaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = docstorepb.NewDocumentStoreClient(conn)
	return c, nil
}

// SetAccessToken replaces the token sent with every call. An empty token
// sends no credentials.
func (c *GRPCClient) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *GRPCClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, c.token()), method, req, reply, cc, opts...)
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) callTimeout() time.Duration {
	if c.timeout <= 0 {
		return DefaultTimeout
	}
	return c.timeout
}

// call runs one attempt bounded by the per-call timeout.
func (c *GRPCClient) call(ctx context.Context, fn func(ctx context.Context) (*structpb.Struct, error)) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout())
	defer cancel()

	resp, err := fn(ctx)
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

// retry repeats an idempotent call with exponential backoff while it fails
// with ErrUnavailable.
func (c *GRPCClient) retry(ctx context.Context, fn func(ctx context.Context) (*structpb.Struct, error)) (*structpb.Struct, error) {
	if c.maxAttempts <= 1 {
		return c.call(ctx, fn)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.baseBackoff
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	exp.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxAttempts-1)), ctx)

	var resp *structpb.Struct
	err := backoff.Retry(func() error {
		r, err := c.call(ctx, fn)
		if err == nil {
			resp = r
			return nil
		}
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
	return resp, err
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (c *GRPCClient) List(ctx context.Context, collection, ownerID, orderField, direction string) ([]models.Record, error) {
	req, err := docstorepb.Encode(docstorepb.ListRequest{
		Collection: collection,
		OwnerID:    ownerID,
		OrderField: orderField,
		Direction:  direction,
	})
	if err != nil {
		return nil, err
	}

	out, err := c.retry(ctx, func(ctx context.Context) (*structpb.Struct, error) {
		return c.client.List(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	var resp docstorepb.ListResponse
	if err := docstorepb.Decode(out, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	records := make([]models.Record, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		records = append(records, models.Record(d))
	}
	return records, nil
}

func (c *GRPCClient) Create(ctx context.Context, collection string, fields models.Record) (string, time.Time, error) {
	req, err := docstorepb.Encode(docstorepb.CreateRequest{
		Collection: collection,
		Fields:     docstorepb.EncodeFields(fields),
	})
	if err != nil {
		return "", time.Time{}, err
	}

	out, err := c.call(ctx, func(ctx context.Context) (*structpb.Struct, error) {
		return c.client.Create(ctx, req)
	})
	if err != nil {
		return "", time.Time{}, err
	}

	var resp docstorepb.CreateResponse
	if err := docstorepb.Decode(out, &resp); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if resp.ID == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty id", ErrBadResponse)
	}
	return resp.ID, resp.CreatedAt.AsTime(), nil
}

func (c *GRPCClient) Update(ctx context.Context, collection, id string, patch models.Record) error {
	req, err := docstorepb.Encode(docstorepb.UpdateRequest{
		Collection: collection,
		ID:         id,
		Patch:      docstorepb.EncodeFields(patch),
	})
	if err != nil {
		return err
	}

	_, err = c.retry(ctx, func(ctx context.Context) (*structpb.Struct, error) {
		return c.client.Update(ctx, req)
	})
	return err
}

func (c *GRPCClient) Delete(ctx context.Context, collection, id string) error {
	req, err := docstorepb.Encode(docstorepb.DeleteRequest{Collection: collection, ID: id})
	if err != nil {
		return err
	}

	_, err = c.retry(ctx, func(ctx context.Context) (*structpb.Struct, error) {
		return c.client.Delete(ctx, req)
	})
	return err
}

// Ping is a single attempt so that the online watcher reacts quickly.
func (c *GRPCClient) Ping(ctx context.Context) error {
	out, err := c.call(ctx, func(ctx context.Context) (*structpb.Struct, error) {
		return c.client.Ping(ctx, &structpb.Struct{})
	})
	if err != nil {
		return err
	}

	var resp docstorepb.PingResponse
	if err := docstorepb.Decode(out, &resp); err != nil || resp.Status != docstorepb.StatusOK {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) PresignUpload(ctx context.Context) (string, string, error) {
	out, err := c.call(ctx, func(ctx context.Context) (*structpb.Struct, error) {
		return c.client.PresignUpload(ctx, &structpb.Struct{})
	})
	if err != nil {
		return "", "", err
	}

	var resp docstorepb.PresignUploadResponse
	if err := docstorepb.Decode(out, &resp); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return resp.Key, resp.URL, nil
}

func (c *GRPCClient) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := docstorepb.Encode(docstorepb.PresignDownloadRequest{Key: key})
	if err != nil {
		return "", err
	}

	out, err := c.retry(ctx, func(ctx context.Context) (*structpb.Struct, error) {
		return c.client.PresignDownload(ctx, req)
	})
	if err != nil {
		return "", err
	}

	var resp docstorepb.PresignDownloadResponse
	if err := docstorepb.Decode(out, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return resp.URL, nil
}
