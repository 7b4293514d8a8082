package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskstore/internal/config"
	"taskstore/internal/exitcode"
	"taskstore/internal/tasks"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task at the top of a list" }
func (c *AddCmd) Usage() string      { return "taskstore add <list-id> <title...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc *tasks.Service, args []string, out, errOut io.Writer) int {
	listID, rest, ok := splitListArgs(args, 0, errOut)
	if !ok {
		return exitcode.UserError
	}

	title := strings.Join(rest, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	// Create prepends to the loaded collection, so load it first.
	if _, code := loadList(ctx, svc, listID, errOut); code != exitcode.Success {
		return code
	}

	task, err := svc.Create(ctx, listID, title)
	if err != nil {
		return report(errOut, listID, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", task.ID)
	}
	return exitcode.Success
}
