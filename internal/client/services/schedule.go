package services

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/common"
	"github.com/dmitrijs2005/studysync/internal/logging"
)

// ScheduleService stores the weekly schedule as the single record of the
// weeklySchedule collection.
type ScheduleService struct {
	sync   *Synchronizer
	logger logging.Logger
	now    func() time.Time
}

func NewScheduleService(sync *Synchronizer, logger logging.Logger) *ScheduleService {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &ScheduleService{sync: sync, logger: logger.With("module", "schedule"), now: sync.now}
}

// LoadSchedule returns the owner's schedule. When the owner has none yet,
// an anonymous schedule is moved to the owner once. It returns nil when no
// schedule exists.
func (s *ScheduleService) LoadSchedule(ctx context.Context, ownerID string) (models.Schedule, error) {
	recs, err := s.sync.Fetch(ctx, models.ScheduleCollection, ownerID)
	if err != nil {
		return nil, err
	}

	if len(recs) > 0 {
		sched, err := models.ScheduleFromValue(recs[0][models.ScheduleField])
		if err != nil {
			s.logger.Error(ctx, "stored schedule is malformed", "id", recs[0].ID(), "error", err)
			return models.Schedule{}, nil
		}
		if sched == nil {
			sched = models.Schedule{}
		}
		return sched, nil
	}

	if common.IsAnonymous(ownerID) {
		return nil, nil
	}

	anon, ok := s.anonymousSchedule(ctx)
	if !ok {
		return nil, nil
	}

	s.logger.Info(ctx, "migrating anonymous schedule", "owner", ownerID)
	if !s.SaveSchedule(ctx, anon, ownerID) {
		return anon, nil
	}

	anonKey := models.AnonymousKey(models.ScheduleCollection)
	unlock := s.sync.locks.Lock(anonKey.String())
	s.sync.cache.Clear(ctx, anonKey)
	unlock()

	return anon, nil
}

// anonymousSchedule looks for a schedule left in the anonymous partition,
// either as a record or as a bare day-to-slots object.
func (s *ScheduleService) anonymousSchedule(ctx context.Context) (models.Schedule, bool) {
	anonKey := models.AnonymousKey(models.ScheduleCollection)

	unlock := s.sync.locks.Lock(anonKey.String())
	defer unlock()

	for _, r := range s.sync.cache.ReadIfList(ctx, anonKey) {
		sched, err := models.ScheduleFromValue(r[models.ScheduleField])
		if err == nil && !sched.IsEmpty() {
			return sched, true
		}
	}

	var legacy models.Schedule
	if s.sync.cache.ReadValue(ctx, anonKey, &legacy) && !legacy.IsEmpty() {
		return legacy, true
	}
	return nil, false
}

// SaveSchedule updates the owner's schedule record or creates it.
func (s *ScheduleService) SaveSchedule(ctx context.Context, schedule models.Schedule, ownerID string) bool {
	recs, err := s.sync.Fetch(ctx, models.ScheduleCollection, ownerID)
	if err != nil {
		s.logger.Error(ctx, "load schedule before save failed", "error", err)
		return false
	}

	data := models.Record{models.ScheduleField: schedule}

	if len(recs) > 0 {
		updated, err := s.sync.Update(ctx, models.ScheduleCollection, recs[0].ID(), data, ownerID)
		if err != nil || updated == nil {
			s.logger.Error(ctx, "save schedule failed", "id", recs[0].ID(), "error", err)
			return false
		}
		return true
	}

	if _, err := s.sync.Add(ctx, models.ScheduleCollection, data, ownerID); err != nil {
		s.logger.Error(ctx, "save schedule failed", "error", err)
		return false
	}
	return true
}

// CreateEmptySchedule returns a schedule with an empty slot list per day.
func CreateEmptySchedule(days []string) models.Schedule {
	out := make(models.Schedule, len(days))
	for _, d := range days {
		out[d] = []models.ClassSlot{}
	}
	return out
}

// AddClass returns a copy of schedule with details appended to day. The
// slot id is the current Unix time in milliseconds, bumped if that id is
// already taken on the day.
func (s *ScheduleService) AddClass(schedule models.Schedule, day string, details models.ClassSlot) models.Schedule {
	out := schedule.Clone()
	now := s.now()

	ms := now.UnixMilli()
	for slotIndex(out[day], strconv.FormatInt(ms, 10)) >= 0 {
		ms++
	}

	slot := details
	slot.ID = strconv.FormatInt(ms, 10)
	slot.CreatedAt = &now
	slot.UpdatedAt = nil

	out[day] = append(out[day], slot)
	return out
}

// UpdateClass returns a copy of schedule where the slot with details.ID on
// day takes every field of details, keeping its id and createdAt, and gets
// a new updatedAt. Empty fields in details clear the stored value.
func (s *ScheduleService) UpdateClass(schedule models.Schedule, day string, details models.ClassSlot) models.Schedule {
	out := schedule.Clone()
	i := slotIndex(out[day], details.ID)
	if i < 0 {
		return out
	}

	slot := details
	slot.ID = out[day][i].ID
	slot.CreatedAt = out[day][i].CreatedAt
	now := s.now()
	slot.UpdatedAt = &now

	out[day][i] = slot
	return out
}

// DeleteClass returns a copy of schedule without the slot classID on day.
func (s *ScheduleService) DeleteClass(schedule models.Schedule, day, classID string) models.Schedule {
	out := schedule.Clone()
	slots, ok := out[day]
	if !ok {
		return out
	}

	kept := make([]models.ClassSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.ID != classID {
			kept = append(kept, slot)
		}
	}
	out[day] = kept
	return out
}

func slotIndex(slots []models.ClassSlot, id string) int {
	for i, slot := range slots {
		if slot.ID == id {
			return i
		}
	}
	return -1
}
