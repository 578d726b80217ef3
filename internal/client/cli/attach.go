package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/studysync/internal/filex"
)

// Attach uploads a file and prints its storage key, which can be stored in
// a record field.
//
//	attach <file>
func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("attach <file>")
	}
	if !a.isLoggedIn() {
		return errors.New("login first")
	}
	key, err := a.attachments.Upload(ctx, args[0])
	if err != nil {
		return err
	}
	printlnFn("Uploaded", args[0], "as", key)
	return nil
}

// Download fetches the attachment stored under key into file.
//
//	download <key> <file>
func (a *App) Download(ctx context.Context, args []string) (err error) {
	if len(args) != 2 {
		return usage("download <key> <file>")
	}
	if !a.isLoggedIn() {
		return errors.New("login first")
	}

	path := args[1]
	if _, err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	n, err := a.attachments.Download(ctx, args[0], f)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Saved %d bytes to %s", n, path))
	return nil
}
