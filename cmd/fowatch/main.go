// fowatch runs a build or test job and turns its output into a report of
// errors, warnings and failed tests.
//
// Usage:
//
//	fowatch              # run the default job
//	fowatch test         # run the "test" job
//	cargo check 2>&1 | fowatch analyze --analyzer standard
//	go test -json ./... | fowatch analyze --format json
//
// Jobs come from .fowatch.yaml. Exit code is 0 when the report is a
// success, 1 when it is not and 2 on usage or runtime errors.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/fowatch/internal/config"
	"github.com/dkoosis/fowatch/pkg/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	theme      string
	debug      bool

	code int
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "fowatch: %v\n", err)
		return 2
	}
	return a.code
}

func (a *app) rootCommand() *cobra.Command {
	var (
		analyzer string
		ui       string
	)
	root := &cobra.Command{
		Use:   "fowatch [job]",
		Short: "Run a build or test job and report its errors, warnings and failures",
		Long: `fowatch runs a job from .fowatch.yaml, classifies its output with the
analyzer of the tool it runs and shows a report of errors, warnings and failed
tests. In a terminal the report stays open: r reruns, t toggles raw output,
d dismisses the first item, u restores dismissed items and q quits.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.runJob(cmd.Context(), name, analyzer, ui)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default .fowatch.yaml, then ~/.config/fowatch/.fowatch.yaml)")
	root.PersistentFlags().StringVar(&a.theme, "theme", "", "theme: "+fmt.Sprint(render.ThemeNames()))
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.Flags().StringVar(&analyzer, "analyzer", "", "override the job's analyzer")
	root.Flags().StringVar(&ui, "ui", "auto", "interface: auto, tui, plain")

	root.AddCommand(a.analyzeCommand())
	root.AddCommand(a.jobsCommand())
	root.AddCommand(a.versionCommand())
	return root
}

// loadConfig loads the configuration and applies the persistent flags.
func (a *app) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, a.configPath)
	if err != nil {
		return nil, err
	}
	if a.theme != "" {
		if !render.IsTheme(a.theme) {
			return nil, fmt.Errorf("unknown theme %q (want one of %v)", a.theme, render.ThemeNames())
		}
		cfg.Theme = a.theme
	}
	if a.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width of w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}
