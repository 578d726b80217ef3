package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ScheduleCollection is the collection holding the weekly schedule record.
const ScheduleCollection = "weeklySchedule"

// ScheduleField is the record field carrying the day to slots mapping.
const ScheduleField = "scheduleData"

// Days of the week in display order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ClassSlot is one class on a given day.
type ClassSlot struct {
	ID        string     `json:"id"`
	Subject   string     `json:"subject,omitempty"`
	Teacher   string     `json:"teacher,omitempty"`
	Location  string     `json:"location,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Time      string     `json:"time,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Schedule maps a day name to its ordered class slots.
type Schedule map[string][]ClassSlot

// IsValidDay reports whether day is one of Days.
func IsValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Clone deep-copies the day slices so that mutations of the copy never
// reach s.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for day, slots := range s {
		cp := make([]ClassSlot, len(slots))
		copy(cp, slots)
		out[day] = cp
	}
	return out
}

// IsEmpty reports whether the schedule has no days at all.
func (s Schedule) IsEmpty() bool {
	return len(s) == 0
}

// ScheduleFromValue decodes a scheduleData value. It accepts a Schedule or
// the generic map produced by JSON or protobuf decoding.
func ScheduleFromValue(v any) (Schedule, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case Schedule:
		return s, nil
	case map[string][]ClassSlot:
		return Schedule(s), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	var out Schedule
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return out, nil
}
