//go:build mage

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/dkoosis/fowatch/pkg/analysis"
	"github.com/dkoosis/fowatch/pkg/job"
	"github.com/dkoosis/fowatch/pkg/output"
	"github.com/dkoosis/fowatch/pkg/render"
)

const (
	modulePath = "github.com/dkoosis/fowatch"
	binPath    = "bin/fowatch"
)

// Default target - build the binary
var Default = Build

// Build builds the fowatch binary with version information.
func Build() error {
	version := gitOutput("dev", "describe", "--tags", "--always", "--dirty", "--match=v*")
	commit := gitOutput("unknown", "rev-parse", "--short", "HEAD")
	date := time.Now().UTC().Format(time.RFC3339)
	ldflags := fmt.Sprintf("-s -w -X '%[1]s/internal/version.Version=%[2]s' -X '%[1]s/internal/version.CommitHash=%[3]s' -X '%[1]s/internal/version.BuildDate=%[4]s'",
		modulePath, version, commit, date)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/fowatch")
}

// Clean removes build artifacts
func Clean() error {
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	return sh.Run("go", "clean", "-cache")
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	return watch("test", analysis.KindGoJSON, "go", "test", "-json", "./...")
}

// Race runs tests with race detector
func (Test) Race() error {
	return watch("race", analysis.KindGoJSON, "go", "test", "-json", "-race", "./...")
}

// Lint namespace for linting commands
type Lint mg.Namespace

// Vet runs go vet
func (Lint) Vet() error {
	return watch("vet", analysis.KindGo, "go", "vet", "./...")
}

// Golangci runs golangci-lint
func (Lint) Golangci() error {
	if _, err := sh.Exec(nil, nil, nil, "golangci-lint", "version"); err != nil {
		fmt.Println("golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return nil
	}
	return watch("golangci", analysis.KindGo, "golangci-lint", "run", "--timeout=5m", "./...")
}

// watch runs a command through fowatch's own analyzers and prints the report.
func watch(name string, kind analysis.Kind, command ...string) error {
	session := analysis.NewSession(analysis.Mission{Job: name, Analyzer: kind})
	code, err := job.Run(context.Background(), job.Spec{Name: name, Command: command}, func(l output.Line) {
		session.Receive(l)
	})
	if err != nil {
		return err
	}
	r, err := session.Finish()
	if err != nil {
		return err
	}
	meta := render.Meta{Job: name, ExitCode: code}
	t := render.NewTerminal(render.ThemeByName(os.Getenv("FOWATCH_THEME")), 120)
	if render.PreferRaw(r, code) {
		fmt.Print(t.RenderRaw(session.Output(), meta))
	} else {
		fmt.Print(t.Render(r, meta))
	}
	if code != 0 || !r.IsSuccess(false, false) {
		return errors.New(name + " failed")
	}
	return nil
}

func gitOutput(fallback string, args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil || strings.TrimSpace(out) == "" {
		return fallback
	}
	return strings.TrimSpace(out)
}
