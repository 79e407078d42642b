package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/keiri-dev/keiri/internal/accounts"
	"github.com/keiri-dev/keiri/internal/config"
	"github.com/keiri-dev/keiri/internal/history"
)

// DefaultOwner is the owner reference init registers when --owner is unset.
const DefaultOwner = "default"

func newInitCommand(g *globals) *cobra.Command {
	var name string
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new keiri project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			owner := g.owner
			if owner == "" {
				owner = DefaultOwner
			}
			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, owner, git)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&git, "git", false, "track the project in git and commit every change")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name, owner string, git bool) error {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	dirs := []string{
		"accounts",
		"data",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name, owner)
	cfg.History.Enabled = git
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.Default().Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	gitignore := ".env\ndata/*.db\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	// Register the business owner so entries can be posted right away.
	profile, err := cfg.Business.Profile()
	if err != nil {
		return err
	}
	s, err := openStore(ctx, dir, cfg.Store, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.AddOwner(ctx, profile); err != nil {
		return fmt.Errorf("registering owner: %w", err)
	}

	if !git {
		fmt.Fprintf(out, "Initialized keiri project at %s (owner %s)\n", dir, owner)
		return nil
	}

	if err := history.Init(dir); err != nil {
		return err
	}
	rec := history.NewRecorder(dir, cfg.History.AuthorName, cfg.History.AuthorEmail)
	hash, err := rec.Commit("init: Initialize " + name)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	fmt.Fprintf(out, "Initialized keiri project at %s (owner %s, %s)\n", dir, owner, hash)
	return nil
}
