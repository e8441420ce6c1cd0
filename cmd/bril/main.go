package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bril/internal/config"
	"bril/internal/prof"
	"bril/internal/version"
)

// errVerificationFailed is returned when at least one snapshot has errors.
// main maps it to exit status 1 without printing it again.
var errVerificationFailed = errors.New("verification failed")

// cliState holds what the persistent pre-run resolved for the subcommands.
type cliState struct {
	cfg          config.Config
	traceCleanup func()
	profiling    *prof.Session
}

func newRootCmd() (*cobra.Command, *cliState) {
	st := &cliState{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:           "bril",
		Short:         "Verifier for bril dialect module snapshots",
		Long:          `bril checks the typing rules of bril.load and bril.store over module snapshots`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st.cfg = cfg
			applyColor(cmd, cfg)
			cleanup, err := setupTracing(cmd, cfg)
			if err != nil {
				return err
			}
			st.traceCleanup = cleanup
			session, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			st.profiling = session
			return nil
		},
	}

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per snapshot")
	rootCmd.PersistentFlags().String("config", "", "path to bril.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for ring/both trace modes")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write Go runtime trace to file")

	rootCmd.AddCommand(newVerifyCmd(st))
	rootCmd.AddCommand(newPackCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd, st
}

// main builds the CLI, runs it under an interrupt-aware context and exits
// with status 1 when the command fails or verification finds errors.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	rootCmd, st := newRootCmd()
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if st.traceCleanup != nil {
		st.traceCleanup()
	}
	if perr := st.profiling.Stop(); perr != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: profiling: %v\n", perr)
	}
	if err == nil {
		return 0
	}
	if !errors.Is(err, errVerificationFailed) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "error: %v\n", err)
	}
	return 1
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
