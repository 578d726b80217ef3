package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/studysync/internal/client/models"
)

// MergeRecords returns the remote records followed by every local record
// whose id the remote side does not know. The remote store wins for every
// id it recognises. Merging the same remote snapshot again is a no-op.
func MergeRecords(remote, local []models.Record) []models.Record {
	known := make(map[string]struct{}, len(remote))
	out := make([]models.Record, 0, len(remote)+len(local))
	for _, r := range remote {
		known[r.ID()] = struct{}{}
		out = append(out, r)
	}
	for _, r := range local {
		if _, ok := known[r.ID()]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortRecords sorts records in place by field. Date fields compare as
// instants with missing or unparseable values counted as the Unix epoch.
// Other fields order missing values first, then dates, numbers and strings,
// each compared naturally within its kind. The sort is stable and an empty
// field leaves the order untouched.
func SortRecords(records []models.Record, field string, dir Direction) {
	if field == "" {
		return
	}
	compare := compareValues
	if slices.Contains(models.DateFields, field) {
		compare = compareInstants
	}
	slices.SortStableFunc(records, func(a, b models.Record) int {
		c := compare(a[field], b[field])
		if dir == Asc {
			return c
		}
		return -c
	})
}

func compareInstants(a, b any) int {
	return models.TimeOf(a).Compare(models.TimeOf(b))
}

type valueRank int

const (
	rankMissing valueRank = iota
	rankDate
	rankNumber
	rankString
	rankOther
)

func rankOf(v any) valueRank {
	if v == nil {
		return rankMissing
	}
	if _, ok := models.NormalizeTimestamp(v); ok {
		return rankDate
	}
	if _, ok := models.Number(v); ok {
		return rankNumber
	}
	if _, ok := v.(string); ok {
		return rankString
	}
	return rankOther
}

func compareValues(a, b any) int {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankDate:
		return compareInstants(a, b)
	case rankNumber:
		na, _ := models.Number(a)
		nb, _ := models.Number(b)
		return cmp.Compare(na, nb)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	default:
		return 0
	}
}
