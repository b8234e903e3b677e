package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hush/internal/scancache"
	"hush/internal/suppress"
	"hush/internal/ui"
	"hush/internal/workspace"
)

var unsuppressCmd = &cobra.Command{
	Use:   "unsuppress [path]",
	Short: "Remove previously applied suppressions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUnsuppress,
}

func init() {
	unsuppressCmd.Flags().String("project", "", "restrict to the project rooted at this directory")
}

func runUnsuppress(cmd *cobra.Command, args []string) error {
	projectScope, err := cmd.Flags().GetString("project")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	root, err := resolveRoot(args)
	if err != nil {
		return err
	}
	scope := ""
	if projectScope != "" {
		scope, err = filepath.Abs(projectScope)
		if err != nil {
			return fmt.Errorf("failed to resolve project scope %q: %w", projectScope, err)
		}
	}

	snap, err := workspace.Discover(cmd.Context(), root)
	if err != nil {
		return fmt.Errorf("unsuppress: %w", err)
	}
	ws := workspace.New(snap)

	cache, err := scancache.Open("hush")
	if err != nil {
		return fmt.Errorf("unsuppress: open cache: %w", err)
	}

	orch := suppress.NewOrchestrator(
		ws,
		&suppress.CacheSource{Cache: cache, Root: root},
		suppress.DefaultRegistry(),
		&suppress.BulkExecutor{Preview: suppress.AutoApprove{}, Persist: true},
		&ui.PlainRunner{Out: cmd.OutOrStdout(), Quiet: quiet},
	)
	if err := orch.RemoveSuppressions(suppress.RemoveOptions{Scope: scope}); err != nil {
		return fmt.Errorf("unsuppress: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Removal is not wired to a fix provider yet; edit hush.suppressions.toml or delete pragmas by hand.")
	return nil
}
