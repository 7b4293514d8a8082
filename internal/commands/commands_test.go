package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"taskstore/internal/commands"
	"taskstore/internal/config"
	"taskstore/internal/exitcode"
	"taskstore/internal/service"
	"taskstore/internal/store"
	"taskstore/internal/tasks"
	"taskstore/internal/testutil"
)

// runCommand is a helper to run a command against a FakeService.
func runCommand(t *testing.T, cmd commands.Command, backend *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var svc *tasks.Service
	if backend != nil {
		svc = tasks.New(backend, store.New(), nil)
	}

	code = cmd.Run(context.Background(), cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func sampleBackend() *testutil.FakeService {
	backend := testutil.NewFakeService()
	backend.AddTask("t1", service.Task{ID: "b", Title: "Eggs"})
	backend.AddTask("t1", service.Task{ID: "a", Title: "Buy milk", Status: service.StatusCompleted, Priority: service.PriorityHi})
	return backend
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskstore 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand_ListsRegisteredCommands(t *testing.T) {
	r := commands.NewRegistry()
	_ = r.Register(&commands.VersionCmd{})
	_ = r.Register(&commands.ListCmd{})

	stdout, _, code := runCommand(t, commands.NewHelpCmd(r), nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "Usage:\n") {
		t.Errorf("expected usage header, got %q", stdout)
	}
	listIdx := strings.Index(stdout, "taskstore list")
	versionIdx := strings.Index(stdout, "taskstore version")
	if listIdx < 0 || versionIdx < 0 || listIdx > versionIdx {
		t.Errorf("expected list before version in help, got %q", stdout)
	}
}

func TestListCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, sampleBackend(), []string{"t1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr)
	}
	want := "------------\nt1 (2)\n------------\n   1  [ ] Eggs\n   2  [x] Buy milk\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestListCommand_Verbose(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetVerbose(true)

	stdout, _, code := runCommand(t, cmd, sampleBackend(), []string{"t1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	testutil.GoldenString(t, "list_verbose", stdout)
}

func TestListCommand_QuietSkipsEmptyList(t *testing.T) {
	backend := testutil.NewFakeService()
	backend.AddList("t2")

	stdout, _, code := runCommand(t, &commands.ListCmd{}, backend, []string{"t2"}, true)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}

func TestListCommand_MissingListID(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, sampleBackend(), nil, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if stderr != "error: list id required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_UnknownList(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, sampleBackend(), []string{"nope"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if stderr != "error: not found: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_Unauthorized(t *testing.T) {
	backend := sampleBackend()
	backend.ListTasksErr["t1"] = service.ErrUnauthorized

	_, stderr, code := runCommand(t, &commands.ListCmd{}, backend, []string{"t1"}, false)
	if code != exitcode.ConfigError {
		t.Errorf("expected config error, got %d", code)
	}
	if !strings.HasPrefix(stderr, "error: auth error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand(t *testing.T) {
	backend := sampleBackend()
	backend.NextID = "c"

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, backend, []string{"t1", "Bake", "bread"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr)
	}
	if stdout != "ok c\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	got := backend.Tasks("t1")
	if got[0].Title != "Bake bread" {
		t.Errorf("expected new task first, got %+v", got)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.AddCmd{}, sampleBackend(), []string{"t1", "x"}, true)
	if code != exitcode.Success || stdout != "" {
		t.Errorf("expected silent success, got %d %q", code, stdout)
	}
}

func TestAddCommand_TitleRequired(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.AddCmd{}, sampleBackend(), []string{"t1", "  "}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	backend := sampleBackend()
	backend.CreateTaskErr = &service.ResultError{Code: 1, Messages: []string{"too long"}}

	_, stderr, code := runCommand(t, &commands.AddCmd{}, backend, []string{"t1", "x"}, false)
	if code != exitcode.BackendError {
		t.Errorf("expected backend error, got %d", code)
	}
	if !strings.Contains(stderr, "too long") {
		t.Errorf("expected backend message, got %q", stderr)
	}
}

func TestRmCommand_ByNumber(t *testing.T) {
	backend := sampleBackend()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, backend, []string{"t1", "2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	got := backend.Tasks("t1")
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("expected only b left, got %+v", got)
	}
}

func TestRmCommand_ByID(t *testing.T) {
	backend := sampleBackend()

	_, _, code := runCommand(t, &commands.RmCmd{}, backend, []string{"t1", "b"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if got := backend.Tasks("t1"); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("expected only a left, got %+v", got)
	}
}

func TestRmCommand_OutOfRange(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, sampleBackend(), []string{"t1", "9"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if stderr != "error: task number out of range: 9\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmCommand_RefRequired(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, sampleBackend(), []string{"t1"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand(t *testing.T) {
	backend := sampleBackend()

	_, stderr, code := runCommand(t, commands.NewDoneCmd(false), backend, []string{"t1", "1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr)
	}
	if got := backend.Tasks("t1"); got[0].Status != service.StatusCompleted {
		t.Errorf("expected Eggs completed, got %+v", got[0])
	}
	calls := backend.Calls()
	last := calls[len(calls)-1]
	if last.Patch.Title == nil || *last.Patch.Title != "Eggs" {
		t.Errorf("expected title sent with status, got %+v", last.Patch)
	}
}

func TestUndoneCommand(t *testing.T) {
	backend := sampleBackend()

	_, _, code := runCommand(t, commands.NewDoneCmd(true), backend, []string{"t1", "a"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if got := backend.Tasks("t1"); got[1].Status != service.StatusNew {
		t.Errorf("expected Buy milk reopened, got %+v", got[1])
	}
}

func TestDoneCommand_Names(t *testing.T) {
	if commands.NewDoneCmd(false).Name() != "done" || commands.NewDoneCmd(true).Name() != "undone" {
		t.Error("unexpected command names")
	}
}

func TestWatchCommand_PrintsInitialSnapshot(t *testing.T) {
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(time.Hour, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out, errOut bytes.Buffer
	svc := tasks.New(sampleBackend(), store.New(), nil)
	code := cmd.Run(ctx, &config.Config{}, svc, []string{"t1"}, &out, &errOut)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, errOut.String())
	}
	want := "------------\nt1 (2)\n------------\n   1  [ ] Eggs\n   2  [x] Buy milk\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestWatchCommand_StopsOnCancel(t *testing.T) {
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(10*time.Millisecond, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out, errOut bytes.Buffer
	svc := tasks.New(sampleBackend(), store.New(), nil)
	code := cmd.Run(ctx, &config.Config{}, svc, []string{"t1"}, &out, &errOut)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	// Refetches of an unchanged list are not printed again.
	if n := strings.Count(out.String(), "t1 (2)"); n != 1 {
		t.Errorf("expected one rendering, got %d", n)
	}
}

func TestWatchCommand_RequiresOneList(t *testing.T) {
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(time.Second, 0)
	_, stderr, code := runCommand(t, cmd, sampleBackend(), []string{"t1", "t2"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if stderr != "error: exactly one list id required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRegistry_DuplicateAlias(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.AddCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.AddCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if cmd, ok := r.Find("create"); !ok || cmd.Name() != "add" {
		t.Error("expected alias lookup to find add")
	}
	if n := len(r.All()); n != 1 {
		t.Errorf("expected one command, got %d", n)
	}
}
