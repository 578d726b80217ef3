package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/models"
)

var hiddenFields = map[string]bool{
	models.FieldID:        true,
	models.FieldOwnerID:   true,
	models.FieldExpiresAt: true,
}

// formatRecord renders r as "<id>  key=value ..." with keys sorted.
func formatRecord(r models.Record) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if !hiddenFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	id := r.ID()
	if id == "" {
		id = "-"
	}
	b.WriteString(id)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s=%s", k, formatValue(r[k]))
	}
	return b.String()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Local().Format(time.DateTime)
	case nil:
		return "null"
	default:
		return fmt.Sprint(t)
	}
}

func formatSlot(s models.ClassSlot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  [%s] %s", s.ID, s.Subject)
	for _, kv := range [][2]string{{"time", s.Time}, {"teacher", s.Teacher}, {"location", s.Location}, {"notes", s.Notes}} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "  %s=%s", kv[0], kv[1])
		}
	}
	return b.String()
}
