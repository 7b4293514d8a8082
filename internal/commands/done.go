package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskstore/internal/config"
	"taskstore/internal/exitcode"
	"taskstore/internal/service"
	"taskstore/internal/tasks"
)

func init() {
	Register(NewDoneCmd(false))
	Register(NewDoneCmd(true))
}

// DoneCmd implements the done and undone commands: it checks or unchecks a task.
type DoneCmd struct {
	status service.TaskStatus
	undo   bool
}

// NewDoneCmd returns the done command, or undone if undo is set.
func NewDoneCmd(undo bool) *DoneCmd {
	if undo {
		return &DoneCmd{status: service.StatusNew, undo: true}
	}
	return &DoneCmd{status: service.StatusCompleted}
}

func (c *DoneCmd) Name() string {
	if c.undo {
		return "undone"
	}
	return "done"
}

func (c *DoneCmd) Aliases() []string {
	if c.undo {
		return []string{"uncheck"}
	}
	return []string{"check"}
}

func (c *DoneCmd) Synopsis() string {
	if c.undo {
		return "Mark a task not completed"
	}
	return "Mark a task completed"
}

func (c *DoneCmd) Usage() string      { return "taskstore " + c.Name() + " <list-id> <ref>" }
func (c *DoneCmd) NeedsBackend() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc *tasks.Service, args []string, out, errOut io.Writer) int {
	listID, rest, ok := splitListArgs(args, 1, errOut)
	if !ok {
		return exitcode.UserError
	}

	task, code := resolveTask(ctx, svc, listID, rest[0], errOut)
	if code != exitcode.Success {
		return code
	}

	// The backend expects the title alongside the status.
	status := c.status
	patch := service.TaskPatch{Title: &task.Title, Status: &status}
	if _, err := svc.Update(ctx, listID, task.ID, patch); err != nil {
		return report(errOut, listID, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
