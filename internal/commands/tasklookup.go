package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskstore/internal/exitcode"
	"taskstore/internal/service"
	"taskstore/internal/tasks"
)

// errOutOfRange means a numeric reference is past the end of the list.
var errOutOfRange = errors.New("task number out of range")

// findTask resolves ref against a loaded collection.
func findTask(list []service.Task, ref TaskRef) (service.Task, error) {
	if ref.ID == "" {
		if ref.Num < 1 || ref.Num > len(list) {
			return service.Task{}, fmt.Errorf("%w: %d", errOutOfRange, ref.Num)
		}
		return list[ref.Num-1], nil
	}
	for _, t := range list {
		if t.ID == ref.ID {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("%w: %s", tasks.ErrTaskNotFound, ref.ID)
}

// loadList fetches listID into the store and returns its tasks.
// On failure it reports to errOut and returns a non-zero exit code.
func loadList(ctx context.Context, svc *tasks.Service, listID string, errOut io.Writer) ([]service.Task, int) {
	if err := svc.FetchAll(ctx, listID); err != nil {
		return nil, report(errOut, listID, err)
	}
	list, _ := svc.Store().Tasks(listID)
	return list, exitcode.Success
}

// resolveTask loads listID and resolves refArg against it.
func resolveTask(ctx context.Context, svc *tasks.Service, listID, refArg string, errOut io.Writer) (service.Task, int) {
	ref, err := ParseTaskRef(refArg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}

	list, code := loadList(ctx, svc, listID, errOut)
	if code != exitcode.Success {
		return service.Task{}, code
	}

	task, err := findTask(list, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}

// report prints err and maps it to an exit code.
func report(errOut io.Writer, listID string, err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: not found: %s\n", listID)
		return exitcode.UserError
	case errors.Is(err, tasks.ErrListNotLoaded), errors.Is(err, tasks.ErrTaskNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.ConfigError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// splitListArgs requires a list ID followed by at least n more arguments.
func splitListArgs(args []string, n int, errOut io.Writer) (string, []string, bool) {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: list id required")
		return "", nil, false
	}
	if len(args)-1 < n {
		if n == 1 {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintln(errOut, "error: missing arguments")
		}
		return "", nil, false
	}
	return args[0], args[1:], true
}
