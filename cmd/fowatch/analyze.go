package main

import (
	"bufio"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dkoosis/fowatch/internal/detect"
	"github.com/dkoosis/fowatch/pkg/analysis"
	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/render"
	"github.com/dkoosis/fowatch/pkg/report"
)

const maxLineSize = 1024 * 1024

func (a *app) analyzeCommand() *cobra.Command {
	var (
		analyzer   string
		format     string
		jobName    string
		exitStatus int
		ignore     []string
		lineFormat string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze captured tool output read from stdin",
		Long: `analyze reads output captured from a build or test tool on stdin and
prints its report. Without --analyzer, JSON streams (go test -json, cargo
--message-format json, nextest, eslint -f json) are recognized from their first
line and anything else uses the standard analyzer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			setupLogging(a.stderr, cfg.Debug)

			br := bufio.NewReaderSize(a.stdin, 64*1024)
			kind := analysis.KindStandard
			if analyzer != "" {
				if kind, err = analysis.ParseKind(analyzer); err != nil {
					return err
				}
			} else if peeked, _ := br.Peek(4096); len(peeked) > 0 {
				if k, ok := detect.Sniff(peeked); ok {
					kind = k
					slog.Debug("analyzer detected", "analyzer", kind.String())
				}
			}
			filter, err := analysis.CompileIgnore(ignore)
			if err != nil {
				return err
			}

			session := analysis.NewSession(analysis.Mission{Job: jobName, Analyzer: kind, Ignore: filter})
			sc := bufio.NewScanner(br)
			sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
			for sc.Scan() {
				session.Receive(output.NewLine(sc.Text(), output.StdOut))
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			r, err := session.Finish()
			if err != nil {
				return err
			}
			meta := render.Meta{Job: jobName, ExitCode: exitStatus}
			if err := a.printAnalysis(r, meta, session, format, lineFormat, render.ThemeByName(cfg.Theme)); err != nil {
				return err
			}
			a.code = exitCode(r, meta)
			return nil
		},
	}
	cmd.Flags().StringVar(&analyzer, "analyzer", "", "analyzer: "+fmt.Sprint(analysis.KindNames()))
	cmd.Flags().StringVar(&format, "format", "auto", "output format: auto, terminal, plain, json, locations")
	cmd.Flags().StringVar(&jobName, "job", "analyze", "job name shown in the report")
	cmd.Flags().IntVar(&exitStatus, "exit-code", 0, "exit code of the command that produced the output")
	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, "regular expression of lines to drop (repeatable)")
	cmd.Flags().StringVar(&lineFormat, "line-format", report.DefaultLocationFormat, "line format of --format locations")
	return cmd
}

func (a *app) printAnalysis(r *report.Report, meta render.Meta, session *analysis.Session, format, lineFormat string, theme render.Theme) error {
	if format == "auto" {
		format = "plain"
		if isTTYWriter(a.stdout) {
			format = "terminal"
		}
	}
	switch format {
	case "terminal":
		t := render.NewTerminal(theme, termWidth(a.stdout))
		if render.PreferRaw(r, meta.ExitCode) {
			fmt.Fprint(a.stdout, t.RenderRaw(session.Output(), meta))
			return nil
		}
		fmt.Fprint(a.stdout, t.Render(r, meta))
	case "plain":
		fmt.Fprint(a.stdout, render.NewPlain().Render(r, meta))
	case "json":
		fmt.Fprint(a.stdout, render.NewJSON().Render(r, meta))
	case "locations":
		return r.WriteLocations(a.stdout, lineFormat)
	default:
		return fmt.Errorf("unknown format %q (want auto, terminal, plain, json or locations)", format)
	}
	return nil
}
