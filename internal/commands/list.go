package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskstore/internal/config"
	"taskstore/internal/exitcode"
	"taskstore/internal/output"
	"taskstore/internal/tasks"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	verbose bool
}

// SetVerbose sets verbose output (for testing).
func (c *ListCmd) SetVerbose(v bool) {
	c.verbose = v
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List the tasks of a list" }
func (c *ListCmd) Usage() string      { return "taskstore list [-v] <list-id>..." }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "")
	fs.BoolVar(&c.verbose, "verbose", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc *tasks.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: list id required")
		return exitcode.UserError
	}

	for _, listID := range args {
		list, code := loadList(ctx, svc, listID, errOut)
		if code != exitcode.Success {
			return code
		}
		if len(list) == 0 && cfg.Quiet {
			continue
		}
		output.FormatList(out, listID, list, c.verbose)
	}
	return exitcode.Success
}
