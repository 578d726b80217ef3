package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studysync/internal/client/models"
	"github.com/dmitrijs2005/studysync/internal/client/services"
)

var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

// List prints the records of a collection.
//
//	list <collection> [field] [asc|desc]
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 3 {
		return usage("list <collection> [field] [asc|desc]")
	}
	collection := args[0]

	var opts []services.FetchOption
	if len(args) > 1 {
		opts = append(opts, services.OrderBy(args[1]))
	}
	if len(args) > 2 {
		switch strings.ToLower(args[2]) {
		case "asc":
			opts = append(opts, services.Ascending())
		case "desc":
			opts = append(opts, services.Descending())
		default:
			return usage("list <collection> [field] [asc|desc]")
		}
	}

	a.touch(collection)
	recs, err := a.sync.Fetch(ctx, collection, a.currentOwner(), opts...)
	if err != nil {
		return err
	}
	for _, r := range recs {
		printlnFn(formatRecord(r))
	}
	printlnFn(fmt.Sprintf("(%d records)", len(recs)))
	return nil
}

// Add creates a record.
//
//	add <collection> name=value...
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("add <collection> name=value...")
	}
	fields, err := models.ParseFields(args[1:])
	if err != nil {
		return err
	}

	a.touch(args[0])
	rec, err := a.sync.Add(ctx, args[0], fields, a.currentOwner())
	if err != nil {
		return err
	}
	if rec.IsLocal() {
		printlnFn("Saved locally as", rec.ID())
	} else {
		printlnFn("Saved as", rec.ID())
	}
	return nil
}

// Update patches a record.
//
//	update <collection> <id> name=value...
func (a *App) Update(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("update <collection> <id> name=value...")
	}
	patch, err := models.ParseFields(args[2:])
	if err != nil {
		return err
	}

	a.touch(args[0])
	rec, err := a.sync.Update(ctx, args[0], args[1], patch, a.currentOwner())
	if err != nil {
		return err
	}
	if rec == nil {
		printlnFn("No record", args[1])
		return nil
	}
	printlnFn(formatRecord(rec))
	return nil
}

// Delete removes a record.
//
//	delete <collection> <id>
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("delete <collection> <id>")
	}

	a.touch(args[0])
	if _, err := a.sync.Delete(ctx, args[0], args[1], a.currentOwner()); err != nil {
		return err
	}
	printlnFn("Deleted", args[1])
	return nil
}

// Sync pushes records created offline. Without arguments every collection
// used in this session is synchronized.
//
//	sync [collection...]
func (a *App) Sync(ctx context.Context, args []string) error {
	owner := a.currentOwner()
	if owner == "" {
		return errors.New("login first")
	}

	collections := args
	if len(collections) == 0 {
		collections = a.touchedCollections()
	}

	var errs []error
	for _, c := range collections {
		if err := a.sync.SyncOfflineRecords(ctx, c, owner); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}
		printlnFn("Synchronized", c)
	}
	return errors.Join(errs...)
}
