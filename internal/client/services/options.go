package services

import (
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/google/uuid"
)

// Diagnostic describes one absorbed failure.
type Diagnostic struct {
	Op        string
	Partition string
	RecordID  string
	Err       error
}

type Option func(*Synchronizer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

// WithIDGenerator replaces the local id generator.
func WithIDGenerator(gen func(now time.Time) string) Option {
	return func(s *Synchronizer) { s.newLocalID = gen }
}

// WithRemoteTimeout bounds every remote call made by the synchronizer.
// Zero leaves the bound to the client.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Synchronizer) { s.remoteTimeout = d }
}

// WithDiagnostics installs a callback receiving every absorbed failure.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(s *Synchronizer) { s.onDiagnostic = fn }
}

func defaultLocalID(now time.Time) string {
	return models.NewLocalID(now, uuid.NewString())
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type fetchOptions struct {
	field string
	dir   Direction
}

type FetchOption func(*fetchOptions)

// OrderBy sorts by field. An empty field disables sorting.
func OrderBy(field string) FetchOption {
	return func(o *fetchOptions) { o.field = field }
}

func Ascending() FetchOption {
	return func(o *fetchOptions) { o.dir = Asc }
}

func Descending() FetchOption {
	return func(o *fetchOptions) { o.dir = Desc }
}

func newFetchOptions(opts []FetchOption) fetchOptions {
	o := fetchOptions{field: models.FieldCreatedAt, dir: Desc}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dir != Asc {
		o.dir = Desc
	}
	return o
}
