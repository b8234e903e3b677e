package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hush/internal/workspace"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List recorded suppression entries",
	Long: `List the entries of every project's suppression list
(hush.suppressions.toml) in the workspace.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var listProjectColor = color.New(color.Bold)

func runList(cmd *cobra.Command, args []string) error {
	applyColorMode(cmd)

	root, err := resolveRoot(args)
	if err != nil {
		return err
	}
	snap, err := workspace.Discover(cmd.Context(), root)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	out := cmd.OutOrStdout()
	total := 0
	for _, project := range snap.Projects() {
		entries := project.Suppressions()
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s (%s)\n", listProjectColor.Sprint(project.Name()), project.ID())
		for _, entry := range entries {
			if entry.Hash != "" {
				fmt.Fprintf(out, "  %s  %s  #%s\n", entry.Code, entry.Path, entry.Hash)
			} else {
				fmt.Fprintf(out, "  %s  %s\n", entry.Code, entry.Path)
			}
			total++
		}
	}
	if total == 0 {
		fmt.Fprintln(out, "No suppression entries recorded.")
		return nil
	}
	fmt.Fprintf(out, "%d entrie(s) total.\n", total)
	return nil
}
