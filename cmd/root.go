package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/spf13/cobra"

	"devsweep/internal/clean"
	"devsweep/internal/picker"
	"devsweep/internal/project"
	"devsweep/internal/scan"
	"devsweep/internal/ui"
)

var (
	// Global flags
	debug    bool
	dryRun   bool
	yes      bool
	listOnly bool
	exclude  []string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// typeFlags maps each ecosystem flag to its project type. Passing none
// of them enables every type.
var typeFlags = []struct {
	name  string
	usage string
	typ   project.Type
	set   bool
}{
	{name: "rust", usage: "Clean Rust target/ directories", typ: project.Rust},
	{name: "node", usage: "Clean Node.js node_modules/", typ: project.Node},
	{name: "python", usage: "Clean Python venvs and caches", typ: project.Python},
	{name: "java", usage: "Clean Java Maven build output", typ: project.Maven},
	{name: "gradle", usage: "Clean Gradle build/ directories", typ: project.Gradle},
	{name: "dotnet", usage: "Clean .NET bin/ and obj/ directories", typ: project.DotNet},
	{name: "next", usage: "Clean Next.js .next/ directories", typ: project.NextJS},
	{name: "nuxt", usage: "Clean Nuxt.js .nuxt/ directories", typ: project.NuxtJS},
}

var rootCmd = &cobra.Command{
	Use:   "devsweep [path]",
	Short: "Reclaim disk space from build artifacts and dependency caches",
	Long: `DevSweep - Reclaim disk space from developer project directories.

Scans a directory tree for build output and dependency caches
(node_modules, Rust/Maven target, Python venvs, Gradle build,
.NET bin/obj, Next.js/Nuxt.js output), shows what it found in an
interactive checklist, and deletes what you pick.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")

	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be deleted without deleting")
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the checklist and clean everything found")
	rootCmd.Flags().BoolVar(&listOnly, "list", false, "Print the candidate list and exit")
	rootCmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Skip directories matching a gitignore-style pattern (repeatable)")

	for i := range typeFlags {
		rootCmd.Flags().BoolVar(&typeFlags[i].set, typeFlags[i].name, false, typeFlags[i].usage)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// enabledTypes builds the active rule subset from the ecosystem flags.
// No flag given yields the empty Set, which scan treats as "everything
// enabled".
func enabledTypes() project.Set {
	var types []project.Type
	for _, tf := range typeFlags {
		if tf.set {
			types = append(types, tf.typ)
		}
	}
	return project.NewSet(types...)
}

// ─── Root flow ───────────────────────────────────────────────────────────────

func runRoot(cmd *cobra.Command, args []string) error {
	rootPath := "."
	if len(args) > 0 {
		rootPath = args[0]
	}
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", rootPath, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := scan.Options{Types: enabledTypes()}
	if len(exclude) > 0 {
		opts.Exclude = ignore.CompileIgnoreLines(exclude...)
	}

	// The checklist needs a terminal. Without one (or under --list,
	// --dry-run, -y) run the non-interactive flow instead.
	if listOnly || dryRun || yes || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runBatch(ctx, abs, opts)
	}
	return runInteractive(ctx, abs, opts)
}

// runInteractive drives the full-screen picker: spinner while scanning,
// then the grouped checklist, then deletion of the confirmed subset.
func runInteractive(ctx context.Context, root string, opts scan.Options) error {
	model := picker.New(root, func() ([]scan.Candidate, []scan.Warning, error) {
		return scan.Scan(ctx, root, opts)
	})

	out, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	final := out.(picker.Model)

	printWarnings(final.Warnings())

	if scanErr := final.Err(); scanErr != nil {
		if errors.Is(scanErr, context.Canceled) {
			fmt.Println(warnStyle().Render("Interrupted."))
			return nil
		}
		return scanErr
	}
	if final.Empty() {
		fmt.Println(warnStyle().Render("No cleanable directories found."))
		return nil
	}
	if final.Cancelled() {
		fmt.Println(warnStyle().Render("Cancelled."))
		return nil
	}

	selected := final.Selection()
	if len(selected) == 0 {
		fmt.Println(warnStyle().Render("Nothing selected."))
		return nil
	}

	fmt.Printf("Deleting %d directories…\n", len(selected))
	report(clean.Remove(selected, false), false, root)
	return nil
}

// runBatch scans synchronously and prints a static report, deleting
// only under -y. Without an explicit go-ahead nothing is removed.
func runBatch(ctx context.Context, root string, opts scan.Options) error {
	fmt.Printf("%s %s…\n\n", headStyle().Render("Scanning"), root)

	start := time.Now()
	found, warnings, err := scan.Scan(ctx, root, opts)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return err
	}

	printWarnings(warnings)
	if interrupted {
		fmt.Println(warnStyle().Render("Interrupted, results are partial."))
	}
	if debug {
		fmt.Printf("Scan took %s\n", time.Since(start).Round(time.Millisecond))
	}

	if len(found) == 0 {
		fmt.Println(warnStyle().Render("No cleanable directories found."))
		return nil
	}

	total := scan.TotalSize(found)
	fmt.Printf("Found %s cleanable directories (%s)\n\n",
		headStyle().Render(fmt.Sprintf("%d", len(found))),
		headStyle().Render(ui.FormatSize(total)))
	printCandidates(found)
	fmt.Println()

	switch {
	case dryRun:
		report(clean.Remove(found, true), true, root)
	case yes && !listOnly:
		fmt.Printf("Deleting %d directories…\n", len(found))
		report(clean.Remove(found, false), false, root)
	default:
		// --list, or no TTY without -y: report only, touch nothing.
		fmt.Println(ui.HintBarStyle().Render("Run again with -y to delete, or without flags for the interactive checklist."))
	}
	return nil
}

// ─── Output helpers ──────────────────────────────────────────────────────────

func headStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ui.ColorWarning)
}

func printCandidates(found []scan.Candidate) {
	width := 0
	for _, c := range found {
		if len(c.Path) > width {
			width = len(c.Path)
		}
	}

	tag := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	for _, c := range found {
		fmt.Printf("  %-*s  %10s  %s\n",
			width, c.Path, ui.FormatSize(c.Size), tag.Render("["+c.Type.Name()+"]"))
	}
}

func printWarnings(warnings []scan.Warning) {
	if len(warnings) == 0 {
		return
	}
	if debug {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, ui.HintBarStyle().Render("  "+ui.IconWarning+" "+w.String()))
		}
		return
	}
	fmt.Fprintln(os.Stderr, ui.HintBarStyle().Render(
		fmt.Sprintf("  %s %d directories could not be read (--debug for details)", ui.IconWarning, len(warnings))))
}

func report(res clean.Result, dry bool, root string) {
	if len(res.Failed) > 0 {
		fmt.Println(ui.ErrorStyle().Render("Failed to delete:"))
		for _, f := range res.Failed {
			fmt.Printf("  %s: %v\n", f.Candidate.Path, f.Err)
		}
		fmt.Println()
	}

	if len(res.Deleted) == 0 {
		return
	}

	verb := "Freed"
	if dry {
		verb = "Would free"
	}
	done := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSuccess)
	fmt.Printf("%s %s in %d directories\n",
		done.Render(verb), done.Render(ui.FormatSize(res.TotalFreed())), len(res.Deleted))

	// Best effort: show where the volume stands now.
	if u, err := disk.Usage(root); err == nil {
		fmt.Printf("Volume free space: %s\n", ui.FormatSize(int64(u.Free)))
	}
}
