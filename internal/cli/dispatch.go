// Package cli parses the command line, opens the task store and dispatches
// to the registered commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/storage"
	"todo/internal/tasks"
)

// flushTimeout bounds the final write after a command.
const flushTimeout = 10 * time.Second

// StorageFactory opens the key-value storage described by cfg.
// Used to inject the backend during dispatch.
type StorageFactory func(ctx context.Context, cfg *config.Config) (storage.Storage, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StorageFactory
}

// NewDispatcher creates a new dispatcher with the given registry and storage factory.
func NewDispatcher(registry *commands.Registry, factory StorageFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// in is handed to commands that ask for confirmation.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, in, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmdName, args[1:], in, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, in, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, in io.Reader, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	// Common flags
	var (
		configDir string
		backend   string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&backend, "storage", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Parse flags
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorMessage(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config; --storage overrides TODO_STORAGE
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if backend != "" {
		cfg.Storage = backend
	}

	// Commands like help and login run without a store
	if !cmd.NeedsStore() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, in, out, errOut)
	}
	return d.runWithStore(ctx, cmd, cfg, positionalArgs, in, out, errOut)
}

// runWithStore opens storage, runs cmd against a restored store and makes
// sure every change is written before returning.
func (d *Dispatcher) runWithStore(ctx context.Context, cmd commands.Command, cfg *config.Config, args []string, in io.Reader, out, errOut io.Writer) int {
	if d.factory == nil {
		fmt.Fprintln(errOut, "error: storage error: no storage configured")
		return exitcode.BackendError
	}

	logger := logging.New(errOut, cfg.Debug)

	// Open storage
	kv, err := d.factory(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage error: %s\n", err)
		return exitcode.BackendError
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close storage")
		}
	}()

	// Restore the list
	store := tasks.New(kv,
		tasks.WithLogger(logger),
		tasks.WithSaveDelay(cfg.SaveDelay),
	)
	defer store.Close()

	if err := store.Initialize(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.BackendError
	}

	// Run command
	var svc service.Service = store
	code := cmd.Run(ctx, cfg, svc, args, in, out, errOut)

	// The process exits right after, so pending writes cannot wait out
	// the debounce window.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()
	if err := store.Flush(flushCtx); err != nil {
		fmt.Fprintf(errOut, "error: failed to save tasks: %s\n", err)
		if code == exitcode.Success {
			code = exitcode.BackendError
		}
	}
	return code
}

// flagErrorMessage rewrites flag package errors into the CLI's wording.
func flagErrorMessage(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
	}
	return errStr
}
