package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	failOn   string

	calls []string
	args  map[string][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	if name == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.record("login", a)
}
func (f *fakeExec) Logout(_ context.Context, a []string) error {
	f.loggedIn = false
	return f.record("logout", a)
}
func (f *fakeExec) Whoami(_ context.Context, a []string) error   { return f.record("whoami", a) }
func (f *fakeExec) List(_ context.Context, a []string) error     { return f.record("list", a) }
func (f *fakeExec) Add(_ context.Context, a []string) error      { return f.record("add", a) }
func (f *fakeExec) Update(_ context.Context, a []string) error   { return f.record("update", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error   { return f.record("delete", a) }
func (f *fakeExec) Sync(_ context.Context, a []string) error     { return f.record("sync", a) }
func (f *fakeExec) Schedule(_ context.Context, a []string) error { return f.record("schedule", a) }
func (f *fakeExec) Attach(_ context.Context, a []string) error   { return f.record("attach", a) }
func (f *fakeExec) Download(_ context.Context, a []string) error { return f.record("download", a) }

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"login tok",
		"help",
		"",
		"add notes title=Limits",
		"l notes createdAt asc",
		"update notes n1 title=Series",
		"delete notes n1",
		"sync notes",
		"schedule show",
		"attach ./a.pdf",
		"download k ./b.pdf",
		"whoami",
		"foobar",
		"logout",
		"exit",
		"list never",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(status)" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "add", "list", "update", "delete", "sync", "schedule", "attach", "download", "whoami", "logout"}, exec.calls)
	assert.Equal(t, []string{"notes", "createdAt", "asc"}, exec.args["list"])
	assert.Equal(t, []string{"notes", "title=Limits"}, exec.args["add"])

	assert.Contains(t, *out, helpAnonymous)
	assert.Contains(t, *out, helpSignedIn)
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "studysync (status) > ")
}

func TestRunREPL_PrintsHandlerErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{failOn: "add"}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("add x\nlist x\n")))

	assert.Equal(t, []string{"add", "list"}, exec.calls)
	assert.Contains(t, *out, "error: boom")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("list x\n")))
	assert.Empty(t, exec.calls)
}
