package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/studysync/internal/common"
)

// Login starts an authenticated session with an access token given as the
// argument or typed at a hidden prompt. Collections used anonymously in
// this session are pushed when the server is reachable.
func (a *App) Login(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		t, err := GetSecret("Access token: ", os.Stdout)
		if err != nil {
			return err
		}
		token = t
	}

	owner, err := a.session.Login(ctx, token)
	if err != nil {
		return err
	}
	a.setOwner(owner)
	printlnFn("Signed in as", owner)

	if a.currentMode() == ModeOnline {
		a.pushOffline(ctx)
	}
	return nil
}

// Logout ends the session. Cached records stay on disk.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.setOwner("")
	printlnFn("Signed out")
	return nil
}

// Whoami prints the current owner and connection mode.
func (a *App) Whoami(_ context.Context, _ []string) error {
	owner := a.currentOwner()
	if owner == "" {
		owner = common.AnonymousOwner
	}
	printlnFn(owner, string(a.currentMode()))
	return nil
}
