package commands

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskstore/internal/config"
	"taskstore/internal/exitcode"
	"taskstore/internal/output"
	"taskstore/internal/tasks"
)

// DefaultWatchInterval is the refetch period of the watch command.
const DefaultWatchInterval = 30 * time.Second

func init() {
	Register(&WatchCmd{})
}

// WatchCmd refetches a list periodically and prints every published change
// until the context is cancelled.
type WatchCmd struct {
	interval time.Duration
	count    int
}

// SetInterval sets the refetch interval and stops after count snapshots
// when count > 0 (for testing).
func (c *WatchCmd) SetInterval(d time.Duration, count int) {
	c.interval = d
	c.count = count
}

func (c *WatchCmd) Name() string       { return "watch" }
func (c *WatchCmd) Aliases() []string  { return nil }
func (c *WatchCmd) Synopsis() string   { return "Print a list every time it changes" }
func (c *WatchCmd) Usage() string      { return "taskstore watch [--interval <d>] [--count <n>] <list-id>" }
func (c *WatchCmd) NeedsBackend() bool { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.interval, "interval", DefaultWatchInterval, "")
	fs.IntVar(&c.count, "count", 0, "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, svc *tasks.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: exactly one list id required")
		return exitcode.UserError
	}
	if c.interval <= 0 {
		fmt.Fprintf(errOut, "error: invalid interval: %s\n", c.interval)
		return exitcode.UserError
	}
	listID := args[0]

	snapshots, unsubscribe := svc.Store().Subscribe()
	defer unsubscribe()

	if err := svc.FetchAll(ctx, listID); err != nil {
		return report(errOut, listID, err)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var last []byte
	printed := 0
	for {
		select {
		case <-ctx.Done():
			return exitcode.Success
		case <-ticker.C:
			if err := svc.FetchAll(ctx, listID); err != nil {
				if ctx.Err() != nil {
					return exitcode.Success
				}
				// Keep watching; the store still holds the last good state.
				report(errOut, listID, err)
			}
		case snap := <-snapshots:
			list, ok := snap.Tasks(listID)
			if !ok {
				continue
			}
			var buf bytes.Buffer
			output.FormatList(&buf, listID, list, false)
			if bytes.Equal(buf.Bytes(), last) {
				continue
			}
			last = buf.Bytes()
			out.Write(last) //nolint:errcheck
			printed++
			if c.count > 0 && printed >= c.count {
				return exitcode.Success
			}
		}
	}
}
