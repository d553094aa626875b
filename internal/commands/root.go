// Package commands implements the ledgerbook CLI.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/buildinfo"
	"github.com/ledgerbook-dev/ledgerbook/internal/config"
	"github.com/ledgerbook-dev/ledgerbook/internal/gitops"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	bookDir string
	debug   bool
	logger  *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:     "ledgerbook",
		Short:   "Small-business books kept as plain files",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = a.newLogger(cmd)
			slog.SetDefault(a.logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.bookDir, "book", ".", "book directory")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(a),
		newPartyCommand(a),
		newStatementCommand(a),
		newTreasuryCommand(a),
		newTrialBalanceCommand(a),
		newPostCommand(a),
		newArchiveCommand(a),
		newEditCommand(a),
		newImportCommand(a),
	)

	return rootCmd
}

// newLogger builds the handler from the book's log settings when a book
// is present. --debug always wins on level.
func (a *app) newLogger(cmd *cobra.Command) *slog.Logger {
	logCfg := config.LogConfig{Format: "text", Level: "info"}
	if cfg, err := config.LoadBook(a.bookDir); err == nil {
		logCfg = cfg.Log
	}
	level := logCfg.SlogLevel()
	if a.debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	w := cmd.ErrOrStderr()
	if logCfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// load opens the book at --book.
func (a *app) load() (*book.Book, error) {
	if _, err := os.Stat(config.Path(a.bookDir)); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no book at %s (run ledgerbook init)", a.bookDir)
	}
	return book.Load(a.bookDir, a.logger)
}

// commit saves b and records the change in git when enabled. The commit
// message is "<action>: <details>".
func (a *app) commit(b *book.Book, action, details string) error {
	if err := b.Save(); err != nil {
		return fmt.Errorf("saving book: %w", err)
	}
	message := action + ": " + details
	rec := gitops.Recorder{
		Dir:     b.Root,
		Author:  gitops.Author{Name: b.Config.Git.AuthorName, Email: b.Config.Git.AuthorEmail},
		Enabled: b.Config.Git.AutoCommit,
		Logger:  a.logger,
	}
	if _, err := rec.Record(message); err != nil {
		// The files are already saved; a failed commit is not fatal.
		a.logger.Warn("git commit failed", "error", err)
	}
	return nil
}
