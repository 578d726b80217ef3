package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/cache"
	"github.com/dmitrijs2005/studysync/internal/client/client"
	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/logging"
)

// Synchronizer keeps the local cache and the remote document store in step.
// Operations on one partition are serialized; different partitions proceed
// independently.
type Synchronizer struct {
	cache  *cache.RecordCache
	remote client.Client
	logger logging.Logger

	now           func() time.Time
	newLocalID    func(now time.Time) string
	remoteTimeout time.Duration
	onDiagnostic  func(Diagnostic)

	locks *keyedMutex
}

// NewSynchronizer builds a synchronizer. A nil remote keeps it permanently
// offline.
func NewSynchronizer(c *cache.RecordCache, remote client.Client, logger logging.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	s := &Synchronizer{
		cache:      c,
		remote:     remote,
		logger:     logger.With("module", "synchronizer"),
		now:        time.Now,
		newLocalID: defaultLocalID,
		locks:      newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}

	c.SetErrorHook(func(op, key string, err error) {
		s.diagnose(Diagnostic{Op: "cache." + op, Partition: key, Err: err})
	})
	return s
}

// Fetch returns every record of the owner's partition, merged with the
// remote store when the owner is authenticated. It never fails on I/O.
func (s *Synchronizer) Fetch(ctx context.Context, collection, ownerID string, opts ...FetchOption) ([]models.Record, error) {
	if collection == "" {
		return nil, common.ErrMissingCollection
	}
	o := newFetchOptions(opts)
	key := models.NewPartitionKey(collection, ownerID)

	unlock := s.locks.Lock(key.String())
	defer unlock()

	local := s.cache.Read(ctx, key)

	if key.IsAnonymous() {
		return sorted(local, o), nil
	}

	if len(local) == 0 {
		local = s.migrateAnonymous(ctx, key, ownerID)
	}

	s.cache.SetLastOwner(ctx, collection, ownerID)

	if s.remote == nil {
		return sorted(local, o), nil
	}

	rctx, cancel := s.remoteContext(ctx)
	remote, err := s.remote.List(rctx, collection, ownerID, o.field, string(o.dir))
	cancel()
	if err != nil {
		s.remoteFailed(ctx, "fetch", key, "", err)
		return sorted(local, o), nil
	}

	fromRemote := make([]models.Record, 0, len(remote))
	for _, r := range remote {
		if r.ID() == "" {
			s.logger.Warn(ctx, "remote record without id skipped", "partition", key.String())
			continue
		}
		fromRemote = append(fromRemote, models.NormalizeRecord(r))
	}

	merged := MergeRecords(fromRemote, local)
	SortRecords(merged, o.field, o.dir)
	s.cache.Write(ctx, key, merged)

	return merged, nil
}

// migrateAnonymous moves the anonymous partition of the collection into the
// owner partition. The caller holds the owner lock; the anonymous lock is
// always taken second. Both partitions are written in one batch so that a
// crash can neither lose nor duplicate the records.
func (s *Synchronizer) migrateAnonymous(ctx context.Context, key models.PartitionKey, ownerID string) []models.Record {
	anonKey := models.AnonymousKey(key.Collection)

	unlock := s.locks.Lock(anonKey.String())
	defer unlock()

	anon := s.cache.ReadIfList(ctx, anonKey)
	if len(anon) == 0 {
		return []models.Record{}
	}

	now := s.now()
	migrated := make([]models.Record, 0, len(anon))
	for _, r := range anon {
		m := r.Clone()
		m[models.FieldOwnerID] = ownerID
		m[models.FieldID] = s.newLocalID(now)
		migrated = append(migrated, m)
	}

	ok := s.cache.WriteMany(ctx, map[models.PartitionKey][]models.Record{
		key:     migrated,
		anonKey: {},
	})
	if ok {
		anonymousRecordsMigratedTotal.WithLabelValues(key.Collection).Add(float64(len(migrated)))
		s.logger.Info(ctx, "anonymous records migrated", "partition", key.String(), "count", len(migrated))
	}
	return migrated
}

// Add stores a new record. Authenticated owners get a remote id when the
// store is reachable; everyone else gets a local id. The record is visible
// in the cache before Add returns.
func (s *Synchronizer) Add(ctx context.Context, collection string, data models.Record, ownerID string) (models.Record, error) {
	if collection == "" {
		return nil, common.ErrMissingCollection
	}
	key := models.NewPartitionKey(collection, ownerID)

	unlock := s.locks.Lock(key.String())
	defer unlock()

	now := s.now()
	rec := data.Without(models.FieldID)
	rec[models.FieldOwnerID] = key.Scope
	rec[models.FieldCreatedAt] = now
	rec[models.FieldUpdatedAt] = now
	rec[models.FieldExpiresAt] = models.ExpiresAt(now)

	id := ""
	if !key.IsAnonymous() && s.remote != nil {
		rctx, cancel := s.remoteContext(ctx)
		remoteID, createdAt, err := s.remote.Create(rctx, collection, rec)
		cancel()
		if err != nil {
			s.remoteFailed(ctx, "add", key, "", err)
		} else {
			id = remoteID
			if !createdAt.IsZero() {
				rec[models.FieldCreatedAt] = createdAt
				rec[models.FieldUpdatedAt] = createdAt
			}
		}
	}
	if id == "" {
		id = s.newLocalID(now)
		localIDsAssignedTotal.WithLabelValues(collection).Inc()
	}
	rec[models.FieldID] = id

	list := s.cache.Read(ctx, key)
	s.cache.Write(ctx, key, append([]models.Record{rec}, list...))

	if !key.IsAnonymous() {
		s.cache.SetLastOwner(ctx, collection, ownerID)
	}

	return rec, nil
}

// Update shallow-merges data into the record with the given id. The remote
// copy is patched only for authenticated owners and remote ids. It returns
// the updated record, or nil when the partition holds no such id.
func (s *Synchronizer) Update(ctx context.Context, collection, id string, data models.Record, ownerID string) (models.Record, error) {
	if collection == "" {
		return nil, common.ErrMissingCollection
	}
	if id == "" {
		return nil, common.ErrMissingID
	}
	key := models.NewPartitionKey(collection, ownerID)

	unlock := s.locks.Lock(key.String())
	defer unlock()

	patch := data.Without(models.FieldID)
	patch[models.FieldUpdatedAt] = s.now()

	if s.canReachRemote(key, id) {
		rctx, cancel := s.remoteContext(ctx)
		err := s.remote.Update(rctx, collection, id, patch)
		cancel()
		if err != nil {
			s.remoteFailed(ctx, "update", key, id, err)
		}
	}

	list := s.cache.Read(ctx, key)
	var updated models.Record
	for i, r := range list {
		if r.ID() == id {
			list[i] = r.Merge(patch)
			updated = list[i]
		}
	}
	if updated == nil {
		return nil, nil
	}

	s.cache.Write(ctx, key, list)
	return updated, nil
}

// Delete removes the record locally and, for authenticated owners and
// remote ids, remotely. It reports true whenever the arguments are valid.
func (s *Synchronizer) Delete(ctx context.Context, collection, id, ownerID string) (bool, error) {
	if collection == "" {
		return false, common.ErrMissingCollection
	}
	if id == "" {
		return false, common.ErrMissingID
	}
	key := models.NewPartitionKey(collection, ownerID)

	unlock := s.locks.Lock(key.String())
	defer unlock()

	if s.canReachRemote(key, id) {
		rctx, cancel := s.remoteContext(ctx)
		err := s.remote.Delete(rctx, collection, id)
		cancel()
		if err != nil {
			s.remoteFailed(ctx, "delete", key, id, err)
		}
	}

	list := s.cache.Read(ctx, key)
	kept := make([]models.Record, 0, len(list))
	for _, r := range list {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	s.cache.Write(ctx, key, kept)

	if !key.IsAnonymous() && len(kept) == 0 {
		s.cache.SetLastOwner(ctx, collection, ownerID)
	}

	return true, nil
}

// SyncOfflineRecords pushes every local-id record of the owner partition to
// the remote store. Each promoted id is persisted at once; failed records
// keep their local id for the next attempt.
func (s *Synchronizer) SyncOfflineRecords(ctx context.Context, collection, ownerID string) error {
	if collection == "" {
		return common.ErrMissingCollection
	}
	if common.IsAnonymous(ownerID) {
		return common.ErrMissingOwner
	}
	if s.remote == nil {
		return nil
	}
	key := models.NewPartitionKey(collection, ownerID)

	unlock := s.locks.Lock(key.String())
	defer unlock()

	list := s.cache.Read(ctx, key)
	pending := 0
	for _, r := range list {
		if r.IsLocal() {
			pending++
		}
	}
	if pending == 0 {
		return nil
	}
	s.logger.Info(ctx, "syncing offline records", "partition", key.String(), "count", pending)

	for i, r := range list {
		if !r.IsLocal() {
			continue
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warn(ctx, "offline sync interrupted", "partition", key.String(), "error", err)
			return nil
		}

		localID := r.ID()
		rctx, cancel := s.remoteContext(ctx)
		remoteID, _, err := s.remote.Create(rctx, collection, r.Without(models.FieldID))
		cancel()
		if err != nil {
			s.remoteFailed(ctx, "sync", key, localID, err)
			continue
		}

		promoted := r.Clone()
		promoted[models.FieldID] = remoteID
		list[i] = promoted
		s.cache.Write(ctx, key, list)

		offlineRecordsSyncedTotal.WithLabelValues(collection).Inc()
		s.logger.Debug(ctx, "offline record synced", "partition", key.String(), "local_id", localID, "id", remoteID)
	}

	return nil
}

func (s *Synchronizer) canReachRemote(key models.PartitionKey, id string) bool {
	return s.remote != nil && !key.IsAnonymous() && !models.IsLocalID(id)
}

func (s *Synchronizer) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.remoteTimeout > 0 {
		return context.WithTimeout(ctx, s.remoteTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Synchronizer) remoteFailed(ctx context.Context, op string, key models.PartitionKey, id string, err error) {
	remoteFailuresTotal.WithLabelValues(op).Inc()
	s.logger.Warn(ctx, "remote "+op+" failed, continuing locally", "partition", key.String(), "id", id, "error", err)
	s.diagnose(Diagnostic{Op: op, Partition: key.String(), RecordID: id, Err: err})
}

func (s *Synchronizer) diagnose(d Diagnostic) {
	if s.onDiagnostic != nil {
		s.onDiagnostic(d)
	}
}

func sorted(records []models.Record, o fetchOptions) []models.Record {
	SortRecords(records, o.field, o.dir)
	return records
}
