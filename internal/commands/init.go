package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/config"
	"github.com/ledgerbook-dev/ledgerbook/internal/gitops"
)

func newInitCommand(a *app) *cobra.Command {
	var name string
	var entityType string
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.bookDir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default(name, entityType)
			if currency != "" {
				cfg.Currency.Code = currency
			}
			return runInit(cmd.OutOrStdout(), a.logger, absDir, cfg)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "llc_single_member", "entity type")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default USD)")

	return cmd
}

func runInit(out io.Writer, logger *slog.Logger, dir string, cfg *config.Config) error {
	if _, err := os.Stat(config.Path(dir)); err == nil {
		return fmt.Errorf("%s already holds a book", dir)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	for _, d := range []string{"import", filepath.Join("import", "processed"), "exports"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if _, err := book.Create(dir, cfg, logger); err != nil {
		return err
	}

	gitignore := "exports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !gitops.Available() {
		logger.Warn("git not installed; book is not versioned")
		fmt.Fprintf(out, "Initialized book at %s\n", dir)
		return nil
	}
	if err := gitops.Init(dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, "init: Initialize "+cfg.Business.Name, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized book at %s (%s)\n", dir, hash)
	return nil
}
