package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/cache"
	"github.com/dmitrijs2005/studysync/internal/client/client"
	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/client/repositories/kv"
	"github.com/stretchr/testify/require"
)

var errRemoteDown = fmt.Errorf("%w: connection refused", client.ErrUnavailable)

// fakeRemote is an in-memory document store with switchable failures.
type fakeRemote struct {
	mu sync.Mutex

	docs   map[string][]models.Record
	nextID int
	now    time.Time

	down       bool
	failCreate func(fields models.Record) bool

	calls map[string]int
}

var _ client.Client = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:  map[string][]models.Record{},
		now:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		calls: map[string]int{},
	}
}

func (f *fakeRemote) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeRemote) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) stored(collection string) []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Record(nil), f.docs[collection]...)
}

func (f *fakeRemote) List(_ context.Context, collection, ownerID, _, _ string) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["List"]++
	if f.down {
		return nil, errRemoteDown
	}
	var out []models.Record
	for _, d := range f.docs[collection] {
		if d.OwnerID() == ownerID {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (f *fakeRemote) Create(_ context.Context, collection string, fields models.Record) (string, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Create"]++
	if f.down || (f.failCreate != nil && f.failCreate(fields)) {
		return "", time.Time{}, errRemoteDown
	}
	f.nextID++
	id := fmt.Sprintf("srv%03d", f.nextID)
	doc := fields.Without(models.FieldID)
	doc[models.FieldID] = id
	doc[models.FieldCreatedAt] = map[string]any{"seconds": float64(f.now.Unix()), "nanos": float64(0)}
	f.docs[collection] = append(f.docs[collection], doc)
	return id, f.now, nil
}

func (f *fakeRemote) Update(_ context.Context, collection, id string, patch models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Update"]++
	if f.down {
		return errRemoteDown
	}
	for i, d := range f.docs[collection] {
		if d.ID() == id {
			f.docs[collection][i] = d.Merge(patch)
			return nil
		}
	}
	return client.ErrNotFound
}

func (f *fakeRemote) Delete(_ context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Delete"]++
	if f.down {
		return errRemoteDown
	}
	kept := f.docs[collection][:0]
	for _, d := range f.docs[collection] {
		if d.ID() != id {
			kept = append(kept, d)
		}
	}
	f.docs[collection] = kept
	return nil
}

func (f *fakeRemote) Ping(context.Context) error {
	if f.down {
		return errRemoteDown
	}
	return nil
}

func (f *fakeRemote) PresignUpload(context.Context) (string, string, error) {
	return "", "", errors.New("not scripted")
}

func (f *fakeRemote) PresignDownload(context.Context, string) (string, error) {
	return "", errors.New("not scripted")
}

func (f *fakeRemote) Close() error { return nil }

// stepClock advances by one second on every call.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// seqIDs produces predictable but unique local ids.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return models.NewLocalID(now, fmt.Sprintf("%09d", g.n))
}

type harness struct {
	store  *kv.MemoryStore
	cache  *cache.RecordCache
	remote *fakeRemote
	sync   *Synchronizer
	diags  []Diagnostic
	dmu    sync.Mutex
}

func newHarness(t *testing.T, remote *fakeRemote) *harness {
	t.Helper()
	h := &harness{store: kv.NewMemoryStore(), remote: remote}
	h.cache = cache.New(h.store, nil)

	var c client.Client
	if remote != nil {
		c = remote
	}
	clock := newStepClock()
	ids := &seqIDs{}
	h.sync = NewSynchronizer(h.cache, c, nil,
		WithClock(clock.Now),
		WithIDGenerator(ids.Next),
		WithRemoteTimeout(time.Second),
		WithDiagnostics(func(d Diagnostic) {
			h.dmu.Lock()
			defer h.dmu.Unlock()
			h.diags = append(h.diags, d)
		}),
	)
	return h
}

func (h *harness) diagnostics() []Diagnostic {
	h.dmu.Lock()
	defer h.dmu.Unlock()
	return append([]Diagnostic(nil), h.diags...)
}

func (h *harness) raw(t *testing.T, key string) string {
	t.Helper()
	b, err := h.store.Get(context.Background(), key)
	require.NoError(t, err)
	return string(b)
}

func ids(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}
