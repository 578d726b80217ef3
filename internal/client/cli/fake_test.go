package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/cache"
	"github.com/dmitrijs2005/studysync/internal/client/client"
	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/client/repositories/kv"
	"github.com/dmitrijs2005/studysync/internal/client/services"
	"github.com/dmitrijs2005/studysync/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// memRemote is a minimal in-memory document store.
type memRemote struct {
	mu   sync.Mutex
	docs map[string][]models.Record
	next int
	down bool
}

var _ client.Client = (*memRemote)(nil)

func newMemRemote() *memRemote { return &memRemote{docs: map[string][]models.Record{}} }

func (m *memRemote) setDown(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = v
}

func (m *memRemote) fail() error {
	if m.down {
		return fmt.Errorf("%w: down", client.ErrUnavailable)
	}
	return nil
}

func (m *memRemote) List(_ context.Context, collection, ownerID, _, _ string) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	var out []models.Record
	for _, d := range m.docs[collection] {
		if d.OwnerID() == ownerID {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (m *memRemote) Create(_ context.Context, collection string, fields models.Record) (string, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return "", time.Time{}, err
	}
	m.next++
	id := fmt.Sprintf("srv-%d", m.next)
	created := time.Date(2030, 1, 1, 0, 0, m.next, 0, time.UTC)
	doc := fields.Without(models.FieldID)
	doc[models.FieldID] = id
	doc[models.FieldCreatedAt] = created
	m.docs[collection] = append(m.docs[collection], doc)
	return id, created, nil
}

func (m *memRemote) Update(_ context.Context, collection, id string, patch models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	for i, d := range m.docs[collection] {
		if d.ID() == id {
			m.docs[collection][i] = d.Merge(patch)
			return nil
		}
	}
	return client.ErrNotFound
}

func (m *memRemote) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	docs := m.docs[collection][:0]
	for _, d := range m.docs[collection] {
		if d.ID() != id {
			docs = append(docs, d)
		}
	}
	m.docs[collection] = docs
	return nil
}

func (m *memRemote) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fail()
}

func (m *memRemote) PresignUpload(context.Context) (string, string, error) {
	return "", "", errors.New("not scripted")
}

func (m *memRemote) PresignDownload(context.Context, string) (string, error) {
	return "", errors.New("not scripted")
}

func (m *memRemote) Close() error { return nil }

func (m *memRemote) count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection])
}

// newTestApp builds an App over an in-memory store. A nil remote keeps the
// app offline.
func newTestApp(t *testing.T, remote *memRemote) *App {
	t.Helper()
	store := kv.NewMemoryStore()

	var rc client.Client
	a := &App{mode: ModeOffline, touched: map[string]struct{}{}, logger: logging.NopLogger{}}
	if remote != nil {
		rc = remote
		a.remote = remote
	}

	a.sync = services.NewSynchronizer(cache.New(store, nil), rc, nil)
	a.schedule = services.NewScheduleService(a.sync, nil)
	a.session = services.NewSessionService(store, nil, nil)
	a.attachments = services.NewAttachmentService(rc, nil)
	a.reader = bufio.NewReader(strings.NewReader(""))
	return a
}

// captureOutput collects everything printed through printlnFn.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		s := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
		lines = append(lines, s)
		return len(s), nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}
