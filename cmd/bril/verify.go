package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bril/internal/diag"
	"bril/internal/diagfmt"
	"bril/internal/driver"
	"bril/internal/observ"
	"bril/internal/verify"
	"bril/internal/version"
)

func newVerifyCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [flags] <snapshot|directory>...",
		Short: "Verify bril.load and bril.store in module snapshots",
		Long:  `Verify loads each snapshot (.yaml/.yml or .mp/.msgpack, directories are walked) and checks the pointer typing rules of bril.load and bril.store`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, st, args)
		},
	}
	cmd.Flags().String("format", "", "output format (pretty|short|json|sarif), default from bril.toml or pretty")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("fail-fast", false, "stop each snapshot at its first failing function")
	cmd.Flags().Bool("no-cache", false, "disable the on-disk verdict cache")
	cmd.Flags().Bool("no-notes", false, "omit diagnostic notes")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("timings", false, "print stage timings to stderr")
	return cmd
}

// runVerify executes the "verify" command and returns errVerificationFailed
// when any snapshot has error diagnostics.
func runVerify(cmd *cobra.Command, st *cliState, args []string) error {
	// Ensure trace is dumped on panic
	defer dumpTraceOnPanic()

	cfg := st.cfg

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		f, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		format = f
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format %q (must be pretty, short, json or sarif)", format)
	}

	jobs := cfg.Verify.Jobs
	if cmd.Flags().Changed("jobs") {
		j, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
		jobs = j
	}

	failFast := cfg.Verify.FailFast
	if cmd.Flags().Changed("fail-fast") {
		f, err := cmd.Flags().GetBool("fail-fast")
		if err != nil {
			return fmt.Errorf("failed to get fail-fast flag: %w", err)
		}
		failFast = f
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	noNotes, err := cmd.Flags().GetBool("no-notes")
	if err != nil {
		return fmt.Errorf("failed to get no-notes flag: %w", err)
	}

	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		defer func() {
			if werr := timer.WriteSummary(cmd.ErrOrStderr()); werr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: timings: %v\n", werr)
			}
		}()
	}

	endExpand := timer.Begin("expand")
	paths, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	endExpand(fmt.Sprintf("%d snapshot(s)", len(paths)))

	opts := driver.Options{
		Jobs: jobs,
		Verify: verify.Options{
			Jobs:           jobs,
			MaxDiagnostics: cfg.Verify.MaxDiagnostics,
			FailFast:       failFast,
		},
	}
	if cfg.Cache.Enabled && !noCache {
		cache, err := driver.OpenCache(cfg.Cache.Dir)
		if err != nil {
			// без кеша просто медленнее
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: verdict cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	endVerify := timer.Begin("verify")
	results, err := driver.VerifyFiles(cmd.Context(), paths, opts)
	if err != nil {
		return err
	}
	endVerify(cachedNote(results))

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	out := cmd.OutOrStdout()
	endRender := timer.Begin("render")
	switch format {
	case "json":
		if err := writeVerifyJSON(out, results, pathMode, !noNotes); err != nil {
			return err
		}
	case "sarif":
		bags := make([]*diag.Bag, len(results))
		for i := range results {
			bags[i] = results[i].Bag
		}
		meta := diagfmt.SarifRunMeta{
			ToolName:       "bril",
			ToolVersion:    version.Version,
			InvocationArgs: append([]string{"verify"}, args...),
			PathMode:       pathMode,
		}
		if err := diagfmt.Sarif(out, bags, meta); err != nil {
			return err
		}
	case "short":
		for i := range results {
			if err := diagfmt.Short(out, results[i].Bag, !noNotes); err != nil {
				return err
			}
		}
	default:
		for i := range results {
			diagfmt.Pretty(out, results[i].Bag, diagfmt.PrettyOpts{
				Color:     useColor(cmd, cfg),
				PathMode:  pathMode,
				ShowNotes: !noNotes,
			})
		}
		writeSummary(out, results)
	}
	endRender(format)

	for i := range results {
		if !results[i].OK() {
			dumpTraceFailures(cmd.ErrOrStderr())
			return errVerificationFailed
		}
	}
	return nil
}

type fileJSON struct {
	Path        string                    `json:"path"`
	Module      string                    `json:"module,omitempty"`
	OK          bool                      `json:"ok"`
	Cached      bool                      `json:"cached,omitempty"`
	Funcs       int                       `json:"funcs"`
	Ops         int                       `json:"ops"`
	Dropped     int                       `json:"dropped,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type verifyJSON struct {
	Files []fileJSON `json:"files"`
	OK    bool       `json:"ok"`
}

func writeVerifyJSON(w io.Writer, results []driver.FileResult, pathMode diagfmt.PathMode, notes bool) error {
	payload := verifyJSON{Files: make([]fileJSON, 0, len(results)), OK: true}
	for i := range results {
		r := &results[i]
		payload.Files = append(payload.Files, fileJSON{
			Path:    r.Path,
			Module:  r.Module,
			OK:      r.OK(),
			Cached:  r.Cached,
			Funcs:   r.Funcs,
			Ops:     r.Ops,
			Dropped: r.Dropped,
			Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, diagfmt.JSONOpts{
				PathMode:     pathMode,
				IncludeNotes: notes,
			}),
		})
		payload.OK = payload.OK && r.OK()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writeSummary(w io.Writer, results []driver.FileResult) {
	failed, errs, dropped := 0, 0, 0
	for i := range results {
		if !results[i].OK() {
			failed++
		}
		errs += results[i].Bag.Len()
		dropped += results[i].Dropped
	}
	status := color.New(color.FgGreen, color.Bold).Sprint("ok")
	if failed > 0 {
		status = color.New(color.FgRed, color.Bold).Sprint("FAILED")
	}
	fmt.Fprintf(w, "%s: %d snapshot(s), %d failed, %d diagnostic(s)", status, len(results), failed, errs)
	if dropped > 0 {
		fmt.Fprintf(w, " (%d more not shown)", dropped)
	}
	fmt.Fprintln(w)
}

func cachedNote(results []driver.FileResult) string {
	cached := 0
	for i := range results {
		if results[i].Cached {
			cached++
		}
	}
	if cached == 0 {
		return ""
	}
	return fmt.Sprintf("%d cached", cached)
}
