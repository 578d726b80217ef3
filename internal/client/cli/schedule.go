package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/client/services"
)

const scheduleUsage = "schedule show | schedule add <day> subject=... [teacher=...] [location=...] [time=...] [notes=...] | schedule edit <day> <id> name=value... | schedule remove <day> <id>"

// Schedule shows and edits the weekly schedule.
func (a *App) Schedule(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage(scheduleUsage)
	}

	a.touch(models.ScheduleCollection)
	owner := a.currentOwner()

	sched, err := a.schedule.LoadSchedule(ctx, owner)
	if err != nil {
		return err
	}

	switch args[0] {
	case "show":
		printSchedule(sched)
		return nil

	case "add":
		if len(args) < 3 {
			return usage(scheduleUsage)
		}
		day, ok := canonicalDay(args[1])
		if !ok {
			return usage("unknown day " + args[1])
		}
		fields, err := models.ParseFields(args[2:])
		if err != nil {
			return err
		}
		slot := slotFromFields(fields)
		if slot.Subject == "" {
			return usage(scheduleUsage)
		}
		if sched == nil {
			sched = scheduleTemplate()
		}
		sched = a.schedule.AddClass(sched, day, slot)

	case "edit":
		if len(args) < 4 {
			return usage(scheduleUsage)
		}
		day, ok := canonicalDay(args[1])
		if !ok {
			return usage("unknown day " + args[1])
		}
		fields, err := models.ParseFields(args[3:])
		if err != nil {
			return err
		}
		if sched == nil {
			printlnFn("No classes scheduled")
			return nil
		}
		current, ok := findSlot(sched[day], args[2])
		if !ok {
			printlnFn("No class", args[2], "on", day)
			return nil
		}
		sched = a.schedule.UpdateClass(sched, day, applyFields(current, fields))

	case "remove":
		if len(args) != 3 {
			return usage(scheduleUsage)
		}
		day, ok := canonicalDay(args[1])
		if !ok {
			return usage("unknown day " + args[1])
		}
		if sched == nil {
			printlnFn("No classes scheduled")
			return nil
		}
		sched = a.schedule.DeleteClass(sched, day, args[2])

	default:
		return usage(scheduleUsage)
	}

	if !a.schedule.SaveSchedule(ctx, sched, owner) {
		printlnFn("Schedule could not be saved")
		return nil
	}
	printSchedule(sched)
	return nil
}

func scheduleTemplate() models.Schedule {
	return services.CreateEmptySchedule(models.Days)
}

func canonicalDay(s string) (string, bool) {
	for _, d := range models.Days {
		if strings.EqualFold(d, s) {
			return d, true
		}
	}
	return "", false
}

func slotFromFields(f models.Record) models.ClassSlot {
	str := func(k string) string {
		s, _ := f[k].(string)
		return s
	}
	return models.ClassSlot{
		Subject:  str("subject"),
		Teacher:  str("teacher"),
		Location: str("location"),
		Notes:    str("notes"),
		Time:     str("time"),
	}
}

func findSlot(slots []models.ClassSlot, id string) (models.ClassSlot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return models.ClassSlot{}, false
}

// applyFields sets the slot fields named in f. A name given with an empty
// value clears that field.
func applyFields(slot models.ClassSlot, f models.Record) models.ClassSlot {
	targets := map[string]*string{
		"subject":  &slot.Subject,
		"teacher":  &slot.Teacher,
		"location": &slot.Location,
		"notes":    &slot.Notes,
		"time":     &slot.Time,
	}
	for k, v := range f {
		if dst, ok := targets[k]; ok {
			*dst, _ = v.(string)
		}
	}
	return slot
}

func printSchedule(s models.Schedule) {
	printed := false
	for _, day := range models.Days {
		slots := s[day]
		if len(slots) == 0 {
			continue
		}
		printed = true
		printlnFn(day)
		for _, slot := range slots {
			printlnFn(formatSlot(slot))
		}
	}
	if !printed {
		printlnFn("No classes scheduled")
	}
}
