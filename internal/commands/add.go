package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasks"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	truncate bool
}

// SetTruncate sets the truncate flag (for testing).
func (c *AddCmd) SetTruncate(truncate bool) {
	c.truncate = truncate
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string     { return "todo add [--truncate] <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.truncate, "truncate", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	return runAdd(cfg, svc, c.truncate, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	truncate bool
}

func (c *CreateCmd) Name() string      { return "create" }
func (c *CreateCmd) Aliases() []string { return nil }
func (c *CreateCmd) Synopsis() string  { return "Add a task (alias for add)" }
func (c *CreateCmd) Usage() string     { return "todo create [--truncate] <text...>" }
func (c *CreateCmd) NeedsStore() bool  { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.truncate, "truncate", false, "")
}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	return runAdd(cfg, svc, c.truncate, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
func runAdd(cfg *config.Config, svc service.Service, truncate bool, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	text := strings.Join(args, " ")
	if truncate {
		text = tasks.Truncate(strings.TrimSpace(text))
	}

	if _, err := svc.AddTask(text); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", textErrorMessage(err))
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
