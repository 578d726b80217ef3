// Package models defines the client-side data shapes handled by the
// synchronizer: free-form records, partition keys and the weekly schedule
// aggregate.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
)

// Well-known record fields.
const (
	FieldID        = "id"
	FieldOwnerID   = "ownerId"
	FieldDate      = "date"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldExpiresAt = "expiresAt"
)

// RetentionMonths is how far in the future expiresAt is set on creation.
const RetentionMonths = 24

// localSuffixLen is the length of the random part of a local id.
const localSuffixLen = 9

var ErrIncorrectField = errors.New("field must be name=value")

// Record is one domain item: a note, a login event, a forum post, a
// pomodoro session or a schedule container. Values are JSON-compatible.
type Record map[string]any

// ID returns the record id or an empty string.
func (r Record) ID() string {
	s, _ := r[FieldID].(string)
	return s
}

// OwnerID returns the ownerId field or an empty string.
func (r Record) OwnerID() string {
	s, _ := r[FieldOwnerID].(string)
	return s
}

// IsLocal reports whether the record has not been confirmed by the remote
// store yet.
func (r Record) IsLocal() bool {
	return IsLocalID(r.ID())
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a shallow copy of r with every field of patch applied.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Without returns a shallow copy of r with the named fields removed.
func (r Record) Without(fields ...string) Record {
	out := r.Clone()
	for _, f := range fields {
		delete(out, f)
	}
	return out
}

// IsLocalID reports whether id carries the local prefix.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, common.LocalIDPrefix)
}

// NewLocalID builds "local_<unix millis>_<suffix>" using the first nine
// alphanumeric characters of entropy.
func NewLocalID(now time.Time, entropy string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(entropy) {
		if b.Len() == localSuffixLen {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return fmt.Sprintf("%s%d_%s", common.LocalIDPrefix, now.UnixMilli(), b.String())
}

// ExpiresAt returns the informational retention deadline for a record
// created at t.
func ExpiresAt(t time.Time) time.Time {
	return t.AddDate(0, RetentionMonths, 0)
}

// ParseFields turns "name=value" arguments into a record. Only the first
// '=' separates name and value.
func ParseFields(pairs []string) (Record, error) {
	out := make(Record, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrIncorrectField, p)
		}
		out[name] = value
	}
	return out, nil
}
