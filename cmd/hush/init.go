package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hush/internal/lang"
	"hush/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a hush workspace",
	Long: `Initialize a hush workspace by creating a project manifest (hush.toml).
If [path|name] is omitted, initializes the current directory. If a
non-existing name is provided, a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initLanguage string

func init() {
	initCmd.Flags().StringVar(&initLanguage, "language", "", "project language (go|python|typescript|markdown); autodetected when omitted")
}

// runInit initializes a hush workspace at the specified target path (or the
// current working directory when no argument or "." is provided) by creating
// a hush.toml manifest.
//
// It resolves the target path, creates the directory if it does not exist,
// derives a project name from the directory basename (falling back to
// "hush-project" for invalid names), and refuses to initialize if hush.toml
// already exists. On success it writes the manifest and prints the created
// file; it returns an error for any filesystem or validation failures.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine project name from directory basename
	name := filepath.Base(target)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "hush-project"
	}

	language := lang.LangUnknown
	if initLanguage != "" {
		language = lang.FromName(initLanguage)
		if language == lang.LangUnknown {
			return fmt.Errorf("unknown language %q", initLanguage)
		}
	} else {
		language = detectLanguage(target)
	}

	manifestPath := filepath.Join(target, workspace.ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("workspace already initialized: %s exists", manifestPath)
	}

	manifest := buildDefaultManifest(name, language)
	if err := os.WriteFile(manifestPath, []byte(manifest), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized hush workspace in %s\n", rel)
	fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", workspace.ManifestFileName)
	return nil
}

// detectLanguage picks the language owning the most files directly under
// target. A tie or an empty directory yields LangUnknown, which leaves the
// manifest language blank for the user to fill in.
func detectLanguage(target string) lang.Language {
	entries, err := os.ReadDir(target)
	if err != nil {
		return lang.LangUnknown
	}
	counts := make(map[lang.Language]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		l := lang.FromExtension(filepath.Ext(entry.Name()))
		if l != lang.LangUnknown {
			counts[l]++
		}
	}
	best := lang.LangUnknown
	bestCount := 0
	tied := false
	for _, l := range lang.All() {
		switch {
		case counts[l] > bestCount:
			best, bestCount, tied = l, counts[l], false
		case counts[l] == bestCount && bestCount > 0:
			tied = true
		}
	}
	if tied {
		return lang.LangUnknown
	}
	return best
}

// buildDefaultManifest returns a minimal TOML manifest marking a directory
// as a hush project.
func buildDefaultManifest(name string, language lang.Language) string {
	langValue := ""
	if language != lang.LangUnknown {
		langValue = language.String()
	}
	return fmt.Sprintf(`# hush project manifest
[project]
name = "%s"
language = "%s"

[scan]
exclude = []
max-line-length = 120
`, name, langValue)
}
