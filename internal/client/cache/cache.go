// Package cache implements the local record cache: one JSON array of
// records per (collection, owner scope) partition, kept in a kv.Store.
//
// The cache never returns an error to its callers. Storage and decoding
// failures are logged, handed to the optional error hook, and degrade to an
// empty partition on read or an in-memory-only result on write.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/client/repositories/kv"
	"github.com/dmitrijs2005/studysync/internal/logging"
)

// ErrorHook receives every absorbed failure.
type ErrorHook func(op string, key string, err error)

type RecordCache struct {
	store  kv.Store
	logger logging.Logger
	onErr  ErrorHook
}

func New(store kv.Store, logger logging.Logger) *RecordCache {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &RecordCache{store: store, logger: logger.With("module", "cache")}
}

// SetErrorHook installs fn as the receiver of absorbed failures.
func (c *RecordCache) SetErrorHook(fn ErrorHook) {
	c.onErr = fn
}

// Read returns the normalized records of a partition. A missing key, a
// storage failure and malformed content all yield an empty slice.
func (c *RecordCache) Read(ctx context.Context, key models.PartitionKey) []models.Record {
	return c.read(ctx, key, false)
}

// ReadIfList is Read for partitions that may still hold a value of an older
// layout. Content that is not a JSON array reads as empty and is only logged
// at debug level; a malformed array is reported like in Read.
func (c *RecordCache) ReadIfList(ctx context.Context, key models.PartitionKey) []models.Record {
	return c.read(ctx, key, true)
}

func (c *RecordCache) read(ctx context.Context, key models.PartitionKey, arrayOnly bool) []models.Record {
	raw, err := c.store.Get(ctx, key.String())
	if err != nil {
		c.fail(ctx, "read", key.String(), err)
		return []models.Record{}
	}
	if len(raw) == 0 {
		return []models.Record{}
	}
	if arrayOnly && !isJSONArray(raw) {
		c.logger.Debug(ctx, "cache value is not a record list", "key", key.String())
		return []models.Record{}
	}

	var decoded []models.Record
	if err := json.Unmarshal(raw, &decoded); err != nil {
		c.fail(ctx, "decode", key.String(), err)
		return []models.Record{}
	}

	out := make([]models.Record, 0, len(decoded))
	for _, r := range decoded {
		if r == nil {
			continue
		}
		out = append(out, models.NormalizeRecord(r))
	}
	return out
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Write replaces the whole partition. It reports whether the records were
// persisted.
func (c *RecordCache) Write(ctx context.Context, key models.PartitionKey, records []models.Record) bool {
	b, err := encode(records)
	if err != nil {
		c.fail(ctx, "encode", key.String(), err)
		return false
	}
	if err := c.store.Set(ctx, key.String(), b); err != nil {
		c.fail(ctx, "write", key.String(), err)
		return false
	}
	return true
}

// WriteMany replaces several partitions. The write is atomic when the
// underlying store supports batches.
func (c *RecordCache) WriteMany(ctx context.Context, parts map[models.PartitionKey][]models.Record) bool {
	values := make(map[string][]byte, len(parts))
	for key, records := range parts {
		b, err := encode(records)
		if err != nil {
			c.fail(ctx, "encode", key.String(), err)
			return false
		}
		values[key.String()] = b
	}

	if batch, ok := c.store.(kv.BatchStore); ok {
		if err := batch.SetMany(ctx, values); err != nil {
			c.fail(ctx, "write", fmt.Sprint(keys(parts)), err)
			return false
		}
		return true
	}

	ok := true
	for key, b := range values {
		if err := c.store.Set(ctx, key, b); err != nil {
			c.fail(ctx, "write", key, err)
			ok = false
		}
	}
	return ok
}

// Clear leaves an empty list in the partition.
func (c *RecordCache) Clear(ctx context.Context, key models.PartitionKey) bool {
	return c.Write(ctx, key, nil)
}

// SetLastOwner remembers the last owner that used collection.
func (c *RecordCache) SetLastOwner(ctx context.Context, collection, ownerID string) {
	key := lastOwnerKey(collection)
	if err := c.store.Set(ctx, key, []byte(ownerID)); err != nil {
		c.fail(ctx, "write", key, err)
	}
}

// LastOwner returns the owner recorded by SetLastOwner, or "".
func (c *RecordCache) LastOwner(ctx context.Context, collection string) string {
	key := lastOwnerKey(collection)
	b, err := c.store.Get(ctx, key)
	if err != nil {
		c.fail(ctx, "read", key, err)
		return ""
	}
	return string(b)
}

func (c *RecordCache) fail(ctx context.Context, op, key string, err error) {
	c.logger.Error(ctx, "cache "+op+" failed", "key", key, "error", err)
	if c.onErr != nil {
		c.onErr(op, key, err)
	}
}

func encode(records []models.Record) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	return json.Marshal(records)
}

func lastOwnerKey(collection string) string {
	return "last" + collection + "OwnerId"
}

func keys(parts map[models.PartitionKey][]models.Record) []string {
	out := make([]string, 0, len(parts))
	for k := range parts {
		out = append(out, k.String())
	}
	return out
}

// ReadValue decodes the raw content of a partition into v. It reports
// false when the key is missing or does not decode; such failures are only
// logged at debug level since callers use it to probe legacy layouts.
func (c *RecordCache) ReadValue(ctx context.Context, key models.PartitionKey, v any) bool {
	raw, err := c.store.Get(ctx, key.String())
	if err != nil {
		c.fail(ctx, "read", key.String(), err)
		return false
	}
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Debug(ctx, "cache value does not match", "key", key.String(), "error", err)
		return false
	}
	return true
}
