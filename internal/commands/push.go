package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/backend/googletasks"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

// DefaultRemoteList is the Google Tasks list push writes to.
const DefaultRemoteList = "To-Do List"

func init() {
	Register(&PushCmd{})
}

// PushCmd implements the push command.
type PushCmd struct {
	list    string
	factory service.PublisherFactory
}

// SetList sets the list flag (for testing).
func (c *PushCmd) SetList(list string) {
	c.list = list
}

// SetPublisherFactory replaces the Google Tasks client (for testing).
func (c *PushCmd) SetPublisherFactory(factory service.PublisherFactory) {
	c.factory = factory
}

func (c *PushCmd) Name() string      { return "push" }
func (c *PushCmd) Aliases() []string { return nil }
func (c *PushCmd) Synopsis() string  { return "Copy tasks to Google Tasks" }
func (c *PushCmd) Usage() string     { return "todo push [--list <list-name>]" }
func (c *PushCmd) NeedsStore() bool  { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.list, "list", DefaultRemoteList, "")
}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	listName := strings.TrimSpace(c.list)
	if listName == "" {
		listName = DefaultRemoteList
	}

	factory := c.factory
	if factory == nil {
		factory = func(ctx context.Context, cfg *config.Config) (service.Publisher, error) {
			return googletasks.New(ctx, cfg)
		}
	}

	pub, err := factory(ctx, cfg)
	if err != nil {
		return remoteError(errOut, err)
	}

	listID, err := pub.EnsureList(ctx, listName)
	if err != nil {
		return remoteError(errOut, err)
	}

	result, err := pub.Publish(ctx, listID, svc.Tasks())
	if err != nil {
		return remoteError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created %d, updated %d, unchanged %d\n", result.Created, result.Updated, result.Unchanged)
	}
	return exitcode.Success
}

// remoteError prints err and maps it to an auth or backend exit code.
func remoteError(errOut io.Writer, err error) int {
	msg := err.Error()
	lower := strings.ToLower(msg)
	for _, hint := range []string{"token", "auth", "login", "not logged in", "oauth"} {
		if strings.Contains(lower, hint) {
			fmt.Fprintf(errOut, "error: auth error: %s\n", msg)
			return exitcode.AuthError
		}
	}
	fmt.Fprintf(errOut, "error: backend error: %s\n", msg)
	return exitcode.BackendError
}
