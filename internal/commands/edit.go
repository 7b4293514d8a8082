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
	Register(&EditCmd{})
}

// optionalString records whether a string flag was given at all, so that
// --description "" can clear a field.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
	status      optionalString
	priority    optionalString
	deadline    optionalString
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return []string{"update"} }
func (c *EditCmd) Synopsis() string   { return "Change fields of a task" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) Usage() string {
	return "taskstore edit [--title <t>] [--description <d>] [--status <s>] [--priority <p>] [--deadline <time>] <list-id> <ref>"
}

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = EditCmd{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.deadline, "deadline", "")
}

// patch builds the update from the flags that were given.
func (c *EditCmd) patch() (service.TaskPatch, error) {
	var p service.TaskPatch
	if c.title.set {
		title := c.title.value
		p.Title = &title
	}
	if c.description.set {
		desc := c.description.value
		p.Description = &desc
	}
	if c.status.set {
		st, ok := service.ParseStatus(c.status.value)
		if !ok {
			return p, fmt.Errorf("invalid status: %s", c.status.value)
		}
		p.Status = &st
	}
	if c.priority.set {
		pr, ok := service.ParsePriority(c.priority.value)
		if !ok {
			return p, fmt.Errorf("invalid priority: %s", c.priority.value)
		}
		p.Priority = &pr
	}
	if c.deadline.set {
		ts, err := service.ParseTimestamp(c.deadline.value)
		if err != nil {
			return p, err
		}
		p.Deadline = &ts
	}
	return p, nil
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc *tasks.Service, args []string, out, errOut io.Writer) int {
	patch, err := c.patch()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if patch.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	listID, rest, ok := splitListArgs(args, 1, errOut)
	if !ok {
		return exitcode.UserError
	}

	task, code := resolveTask(ctx, svc, listID, rest[0], errOut)
	if code != exitcode.Success {
		return code
	}

	updated, err := svc.Update(ctx, listID, task.ID, patch)
	if err != nil {
		return report(errOut, listID, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", updated.Title)
	}
	return exitcode.Success
}
