package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hush/internal/diag"
	"hush/internal/scancache"
	"hush/internal/suppress"
	"hush/internal/ui"
	"hush/internal/workspace"
)

var suppressCmd = &cobra.Command{
	Use:   "suppress [path]",
	Short: "Suppress recorded diagnostics in bulk",
	Long: `Suppress the diagnostics recorded by the last scan, grouped by language.
Each language group is previewed and committed as one change; accepting a
group keeps it even if a later group is declined.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuppress,
}

func init() {
	suppressCmd.Flags().StringSlice("code", nil, "restrict to diagnostics with these codes (e.g. HS1001)")
	suppressCmd.Flags().StringSlice("path", nil, "restrict to documents matching these globs")
	suppressCmd.Flags().Bool("global", false, "record suppressions in the project suppression list instead of in-source pragmas")
	suppressCmd.Flags().String("project", "", "restrict to the project rooted at this directory")
	suppressCmd.Flags().Bool("yes", false, "apply without previewing")
}

func runSuppress(cmd *cobra.Command, args []string) error {
	codes, err := cmd.Flags().GetStringSlice("code")
	if err != nil {
		return err
	}
	paths, err := cmd.Flags().GetStringSlice("path")
	if err != nil {
		return err
	}
	global, err := cmd.Flags().GetBool("global")
	if err != nil {
		return err
	}
	projectScope, err := cmd.Flags().GetString("project")
	if err != nil {
		return err
	}
	autoApprove, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	applyColorMode(cmd)

	parsedCodes := make([]diag.Code, 0, len(codes))
	for _, raw := range codes {
		c, ok := diag.ParseCode(raw)
		if !ok {
			return fmt.Errorf("unknown diagnostic code %q", raw)
		}
		parsedCodes = append(parsedCodes, c)
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
		return fmt.Errorf("suppress: %w", err)
	}
	ws := workspace.New(snap)

	cache, err := scancache.Open("hush")
	if err != nil {
		return fmt.Errorf("suppress: open cache: %w", err)
	}
	if _, ok, loadErr := cache.Load(root); loadErr != nil {
		return loadErr
	} else if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded diagnostics. Run `hush scan` first.")
		return nil
	}

	previewer := &promptPreviewer{
		out:  cmd.OutOrStdout(),
		in:   bufio.NewReader(cmd.InOrStdin()),
		auto: autoApprove || !isTerminal(os.Stdin),
	}

	orch := suppress.NewOrchestrator(
		ws,
		&suppress.CacheSource{Cache: cache, Root: root, Codes: parsedCodes, Paths: paths},
		suppress.DefaultRegistry(),
		&suppress.BulkExecutor{Preview: previewer, Persist: true},
		&ui.PlainRunner{Out: cmd.OutOrStdout(), Quiet: quiet},
	)

	selectedOnly := len(parsedCodes) > 0 || len(paths) > 0
	err = orch.ApplySuppressions(suppress.ApplyOptions{
		SelectedOnly: selectedOnly,
		InSource:     !global,
		Scope:        scope,
	})
	if err != nil {
		return fmt.Errorf("suppress: %w", err)
	}

	if ws.Current() == snap {
		fmt.Fprintln(cmd.OutOrStdout(), "No suppressions applied.")
		return nil
	}

	// Recorded diagnostics are stale now; the next suppress run must rescan.
	if err := cache.Invalidate(root); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d suppression group(s).\n", previewer.accepted)
	}
	return nil
}

// promptPreviewer shows each language group's staged change and asks for
// confirmation on stdin. With auto set it accepts silently.
type promptPreviewer struct {
	out      io.Writer
	in       *bufio.Reader
	auto     bool
	accepted int
}

var previewTitleColor = color.New(color.Bold)

func (p *promptPreviewer) Confirm(preview suppress.Preview) bool {
	fmt.Fprintf(p.out, "%s\n", previewTitleColor.Sprint(preview.Title))
	for _, change := range preview.Files {
		fmt.Fprintf(p.out, "  %s (%d edits)\n", change.Path, change.EditCount)
	}
	if preview.ListEntries > 0 {
		fmt.Fprintf(p.out, "  %d suppression list entrie(s)\n", preview.ListEntries)
	}

	if p.auto {
		p.accepted++
		return true
	}

	fmt.Fprint(p.out, "Apply? [y/N] ")
	answer, err := p.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "y" || answer == "yes" {
		p.accepted++
		return true
	}
	return false
}
