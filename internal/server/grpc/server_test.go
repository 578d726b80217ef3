package grpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/client"
	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/docstorepb"
	"github.com/dmitrijs2005/studysync/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func startBufServer(t *testing.T) *bufconn.Listener {
	t.Helper()
	s := newTestServer(t)
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return lis
}

func dialBuf(t *testing.T, lis *bufconn.Listener, opts ...client.Option) *client.GRPCClient {
	t.Helper()
	opts = append(opts,
		client.WithTimeout(2*time.Second),
		client.WithRetry(1, time.Millisecond),
		client.WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})),
	)
	c, err := client.NewGRPCClient("passthrough:///bufnet", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRoundTrip(t *testing.T) {
	lis := startBufServer(t)
	ctx := context.Background()

	token, err := auth.GenerateToken("user-1", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	c := dialBuf(t, lis, client.WithAccessToken(token))

	require.NoError(t, c.Ping(ctx))

	id, createdAt, err := c.Create(ctx, "notes", models.Record{"title": "algebra", "pages": 3})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.WithinDuration(t, time.Now(), createdAt, time.Minute)

	second, _, err := c.Create(ctx, "notes", models.Record{"title": "biology", "pages": 1})
	require.NoError(t, err)

	require.NoError(t, c.Update(ctx, "notes", id, models.Record{"pages": 5}))

	records, err := c.List(ctx, "notes", "user-1", "title", docstorepb.Ascending)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, id, records[0]["id"])
	assert.Equal(t, "algebra", records[0]["title"])
	assert.EqualValues(t, 5, records[0]["pages"])
	assert.Equal(t, second, records[1]["id"])

	require.NoError(t, c.Delete(ctx, "notes", id))
	records, err = c.List(ctx, "notes", "user-1", "", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second, records[0]["id"])

	err = c.Update(ctx, "notes", id, models.Record{"pages": 6})
	assert.ErrorIs(t, err, client.ErrNotFound)

	key, url, err := c.PresignUpload(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "owners/user-1/"), key)
	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:9000/attachments/"), url)

	_, err = c.PresignDownload(ctx, "owners/user-2/2024/01/01/x")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestRoundTrip_Unauthenticated(t *testing.T) {
	lis := startBufServer(t)
	ctx := context.Background()
	c := dialBuf(t, lis)

	require.NoError(t, c.Ping(ctx), "ping needs no token")

	_, err := c.List(ctx, "notes", "", "", "")
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	token, err := auth.GenerateToken("user-1", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	c.SetAccessToken(token)

	_, err = c.List(ctx, "notes", "user-2", "", "")
	assert.ErrorIs(t, err, client.ErrUnauthorized, "owner mismatch")

	records, err := c.List(ctx, "notes", "user-1", "", "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	s := newTestServer(t)
	s.address = "256.0.0.1:-1"

	assert.Error(t, s.Run(context.Background()))
}
