// Command sealnote-restore decrypts a sealnote export archive offline. It
// needs only the archive file and the account password; it never contacts
// the service.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sealnote/client-go/internal/config"
)

// Config holds the process dependencies so tests can replace them.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ReadPassword prompts for a password without echo.
	ReadPassword func(prompt string) ([]byte, error)
	// Interactive enables the progress spinner.
	Interactive bool
	// EnvFiles are the .env files read before the environment.
	EnvFiles []string
}

// DefaultConfig returns a Config wired to the real process.
func DefaultConfig() Config {
	return Config{
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		ReadPassword: readTerminalPassword,
		Interactive:  term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// run executes the command line in args (args[0] is the program name).
func run(args []string, cfg Config) error {
	env, err := config.Load(cfg.EnvFiles...)
	if err != nil {
		return err
	}
	level, err := env.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: level}))

	root := newRootCmd(cfg, env, logger)
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	return root.ExecuteContext(context.Background())
}

func newRootCmd(cfg Config, env config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "sealnote-restore",
		Short:         "Decrypt a sealnote export archive offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDecryptCmd(cfg, env, logger))
	root.AddCommand(newInspectCmd())
	return root
}

func readTerminalPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read password: stdin is not a terminal (use --password-stdin)")
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return password, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("✗"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
