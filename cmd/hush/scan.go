package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hush/internal/diag"
	"hush/internal/scan"
	"hush/internal/scancache"
	"hush/internal/ui"
	"hush/internal/workspace"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Run the built-in analyzers over a workspace",
	Long:  "Discover projects under the workspace root, scan their documents for diagnostics, and record the results for later suppression runs.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scanCmd.Flags().Int("jobs", 0, "max parallel workers for document scanning (0=auto)")
	scanCmd.Flags().Bool("no-cache", false, "do not record scan results for later suppression runs")
	scanCmd.Flags().Bool("no-progress", false, "disable the progress display")
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return fmt.Errorf("failed to get no-progress flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	applyColorMode(cmd)

	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format %q (must be pretty or json)", format)
	}

	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	snap, err := workspace.Discover(cmd.Context(), root)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	opts := scan.Options{MaxDiagnostics: maxDiagnostics, Jobs: jobs}
	var bag *diag.Bag
	if !quiet && !noProgress && format == "pretty" && isTerminal(os.Stdout) {
		bag, err = scanWithProgress(cmd.Context(), snap, opts)
	} else {
		bag, err = scan.Workspace(cmd.Context(), snap, opts)
	}
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if !noCache {
		cache, cacheErr := scancache.Open("hush")
		if cacheErr != nil {
			return fmt.Errorf("scan: open cache: %w", cacheErr)
		}
		if cacheErr = cache.Save(root, bag.Items()); cacheErr != nil {
			return cacheErr
		}
	}

	if format == "json" {
		return printJSON(cmd.OutOrStdout(), snap, bag)
	}
	return printPretty(cmd.OutOrStdout(), snap, bag, quiet)
}

// scanWithProgress runs the scan on a background goroutine while the
// progress model consumes its events.
func scanWithProgress(ctx context.Context, snap *workspace.Snapshot, opts scan.Options) (*diag.Bag, error) {
	type outcome struct {
		bag *diag.Bag
		err error
	}
	events := make(chan scan.Event, 256)
	outcomeCh := make(chan outcome, 1)

	go func() {
		o := opts
		o.Progress = scan.ChannelSink{Ch: events}
		bag, err := scan.Workspace(ctx, snap, o)
		outcomeCh <- outcome{bag: bag, err: err}
		close(events)
	}()

	model := ui.NewScanProgressModel("Scanning workspace", documentPaths(snap), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	out := <-outcomeCh
	if uiErr != nil {
		return out.bag, uiErr
	}
	return out.bag, out.err
}

var (
	sevErrorColor   = color.New(color.FgRed, color.Bold)
	sevWarningColor = color.New(color.FgYellow)
	sevInfoColor    = color.New(color.FgCyan)
)

func severityLabel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return sevErrorColor.Sprint("error")
	case diag.SevWarning:
		return sevWarningColor.Sprint("warning")
	default:
		return sevInfoColor.Sprint("info")
	}
}

func printPretty(out io.Writer, snap *workspace.Snapshot, bag *diag.Bag, quiet bool) error {
	for _, r := range bag.Items() {
		doc := snap.Document(r.Document)
		location := r.Document.String()
		if doc != nil {
			if text, err := doc.Text(context.Background()); err == nil {
				lc := text.LineCol(r.Span.Start)
				location = fmt.Sprintf("%s:%d:%d", r.Document, lc.Line, lc.Col)
			}
		}
		fmt.Fprintf(out, "%s: %s %s: %s\n", location, severityLabel(r.Severity), r.Code.ID(), r.Message)
	}
	if !quiet {
		fmt.Fprintf(out, "\n%d finding(s)\n", bag.Len())
	}
	return nil
}

type findingPayload struct {
	Project  string `json:"project"`
	Path     string `json:"path"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col"`
}

func printJSON(out io.Writer, snap *workspace.Snapshot, bag *diag.Bag) error {
	payload := make([]findingPayload, 0, bag.Len())
	for _, r := range bag.Items() {
		f := findingPayload{
			Project:  string(r.Document.Project),
			Path:     r.Document.Path,
			Severity: r.Severity.String(),
			Code:     r.Code.ID(),
			Message:  r.Message,
		}
		if doc := snap.Document(r.Document); doc != nil {
			if text, err := doc.Text(context.Background()); err == nil {
				lc := text.LineCol(r.Span.Start)
				f.Line, f.Col = lc.Line, lc.Col
			}
		}
		payload = append(payload, f)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// applyColorMode maps the persistent --color flag onto the color package.
func applyColorMode(cmd *cobra.Command) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
}
