package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// DateFields are the record fields normalized to time.Time on every read.
var DateFields = []string{FieldDate, FieldCreatedAt, FieldUpdatedAt, FieldExpiresAt}

// TimestampKind tags the shapes a date-like value can arrive in.
type TimestampKind int

const (
	// TimestampUnknown is any value that is not recognised as a timestamp.
	TimestampUnknown TimestampKind = iota
	// TimestampNative is a time.Time or *time.Time.
	TimestampNative
	// TimestampWrapper is a value exposing AsTime, such as
	// *timestamppb.Timestamp.
	TimestampWrapper
	// TimestampEpoch is a {seconds, nanos} map.
	TimestampEpoch
	// TimestampString is an RFC 3339 / ISO-8601 string.
	TimestampString
)

func (k TimestampKind) String() string {
	switch k {
	case TimestampNative:
		return "native"
	case TimestampWrapper:
		return "wrapper"
	case TimestampEpoch:
		return "epoch"
	case TimestampString:
		return "string"
	default:
		return "unknown"
	}
}

type asTimer interface {
	AsTime() time.Time
}

// timeLayouts are tried in order. A date-time without a zone is local
// time; a bare date is midnight UTC.
var timeLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", false},
}

// ClassifyTimestamp returns the shape of v.
func ClassifyTimestamp(v any) TimestampKind {
	switch t := v.(type) {
	case time.Time:
		return TimestampNative
	case *time.Time:
		if t == nil {
			return TimestampUnknown
		}
		return TimestampNative
	case asTimer:
		return TimestampWrapper
	case map[string]any:
		if _, ok := Number(t["seconds"]); ok {
			return TimestampEpoch
		}
		return TimestampUnknown
	case string:
		if _, ok := parseTimeString(t); ok {
			return TimestampString
		}
		return TimestampUnknown
	default:
		return TimestampUnknown
	}
}

// NormalizeTimestamp converts any recognised shape to time.Time. The second
// result is false when v is not a timestamp.
func NormalizeTimestamp(v any) (time.Time, bool) {
	switch ClassifyTimestamp(v) {
	case TimestampNative:
		if p, ok := v.(*time.Time); ok {
			return *p, true
		}
		return v.(time.Time), true
	case TimestampWrapper:
		return v.(asTimer).AsTime(), true
	case TimestampEpoch:
		m := v.(map[string]any)
		sec, _ := Number(m["seconds"])
		nanos, ok := Number(m["nanos"])
		if !ok {
			nanos, _ = Number(m["nanoseconds"])
		}
		whole, frac := math.Modf(sec)
		return time.Unix(int64(whole), int64(frac*1e9)+int64(nanos)).UTC(), true
	case TimestampString:
		t, _ := parseTimeString(v.(string))
		return t, true
	default:
		return time.Time{}, false
	}
}

// NormalizeRecord returns a copy of r whose date fields are time.Time.
// Values of unrecognised shape are kept as they are.
func NormalizeRecord(r Record) Record {
	out := r.Clone()
	for _, f := range DateFields {
		v, ok := out[f]
		if !ok || v == nil {
			continue
		}
		if t, ok := NormalizeTimestamp(v); ok {
			out[f] = t
		}
	}
	return out
}

// NormalizeRecords applies NormalizeRecord to every element.
func NormalizeRecords(rs []Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = NormalizeRecord(r)
	}
	return out
}

// TimeOf returns the instant carried by v, or the Unix epoch when v is
// missing or not a timestamp.
func TimeOf(v any) time.Time {
	if t, ok := NormalizeTimestamp(v); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		loc := time.UTC
		if l.local {
			loc = time.Local
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Number converts the numeric kinds a record can hold, JSON-decoded or set
// in memory, to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
