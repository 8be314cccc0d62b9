package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dkoosis/fowatch/internal/config"
	"github.com/dkoosis/fowatch/internal/tui"
	"github.com/dkoosis/fowatch/pkg/analysis"
	"github.com/dkoosis/fowatch/pkg/job"
	"github.com/dkoosis/fowatch/pkg/render"
	"github.com/dkoosis/fowatch/pkg/report"
)

func (a *app) runJob(ctx context.Context, name, analyzer, ui string) error {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	name, jc, err := cfg.Job(name)
	if err != nil {
		return err
	}
	if analyzer != "" {
		k, err := analysis.ParseKind(analyzer)
		if err != nil {
			return err
		}
		jc.WithAnalyzer(k)
	}

	useTUI, err := a.wantTUI(ui)
	if err != nil {
		return err
	}
	export := func(r *report.Report, _ render.Meta) {
		if err := exportLocations(cfg.Export, r); err != nil {
			slog.Warn("locations not exported", "path", cfg.Export.Path, "error", err)
		}
	}
	theme := render.ThemeByName(cfg.Theme)

	if useTUI {
		w, closeLog := openLogFile()
		defer closeLog()
		setupLogging(w, cfg.Debug)
		code, err := tui.Run(ctx, tui.Job{
			Name:          name,
			Spec:          jc.Spec(name),
			Mission:       jc.Mission(name),
			AllowWarnings: jc.AllowWarnings,
			AllowFailures: jc.AllowFailures,
		}, theme, export)
		a.code = code
		return err
	}

	setupLogging(a.stderr, cfg.Debug)
	session := analysis.NewSession(jc.Mission(name))
	task, events := job.Start(ctx, jc.Spec(name))
	code := -1
	var runErr error
	for ev := range events {
		if ev.Line != nil {
			session.Receive(*ev.Line)
			continue
		}
		if ev.Done {
			code, runErr = ev.ExitCode, ev.Err
		}
	}
	if runErr != nil {
		return fmt.Errorf("job %s: %w", name, runErr)
	}
	r, err := session.Finish()
	if err != nil {
		return err
	}
	meta := render.Meta{
		Job:           name,
		ExitCode:      code,
		Duration:      task.Duration(),
		AllowWarnings: jc.AllowWarnings,
		AllowFailures: jc.AllowFailures,
	}
	export(r, meta)
	a.print(r, meta, session, theme)
	a.code = exitCode(r, meta)
	return nil
}

func (a *app) wantTUI(ui string) (bool, error) {
	switch ui {
	case "tui":
		return true, nil
	case "plain":
		return false, nil
	case "auto", "":
		return isTTYWriter(a.stdout) && isTTYWriter(os.Stdin), nil
	default:
		return false, fmt.Errorf("unknown ui %q (want auto, tui or plain)", ui)
	}
}

// print writes the report, or the raw output when the report missed the
// reason the command failed.
func (a *app) print(r *report.Report, meta render.Meta, session *analysis.Session, theme render.Theme) {
	if isTTYWriter(a.stdout) {
		t := render.NewTerminal(theme, termWidth(a.stdout))
		if render.PreferRaw(r, meta.ExitCode) {
			fmt.Fprint(a.stdout, t.Summary(r, meta)+"\n"+t.RawBody(session.Output()))
			return
		}
		fmt.Fprint(a.stdout, t.Render(r, meta))
		return
	}
	fmt.Fprint(a.stdout, render.NewPlain().Render(r, meta))
	if render.PreferRaw(r, meta.ExitCode) && session.Output().Len() > 0 {
		fmt.Fprintln(a.stdout, session.Output().Text())
	}
}

func exitCode(r *report.Report, meta render.Meta) int {
	if render.PreferRaw(r, meta.ExitCode) {
		return 1
	}
	if r.IsSuccess(meta.AllowWarnings, meta.AllowFailures) {
		return 0
	}
	return 1
}

func exportLocations(c config.ExportConfig, r *report.Report) error {
	if !c.Enabled {
		return nil
	}
	f, err := os.Create(c.Path) // #nosec G304 -- path comes from the user's config
	if err != nil {
		return fmt.Errorf("create locations file: %w", err)
	}
	if err := r.WriteLocations(f, c.LineFormat); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
