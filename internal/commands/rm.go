package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskstore/internal/config"
	"taskstore/internal/exitcode"
	"taskstore/internal/tasks"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "taskstore rm <list-id> <ref>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc *tasks.Service, args []string, out, errOut io.Writer) int {
	listID, rest, ok := splitListArgs(args, 1, errOut)
	if !ok {
		return exitcode.UserError
	}

	task, code := resolveTask(ctx, svc, listID, rest[0], errOut)
	if code != exitcode.Success {
		return code
	}

	if err := svc.Delete(ctx, listID, task.ID); err != nil {
		return report(errOut, listID, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
