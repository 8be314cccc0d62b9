package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/fowatch/internal/detect"
	"github.com/dkoosis/fowatch/pkg/analysis"
	"github.com/dkoosis/fowatch/pkg/job"
	"github.com/dkoosis/fowatch/pkg/render"
	"github.com/dkoosis/fowatch/pkg/report"
)

// FileName is the name of the configuration file.
const FileName = ".fowatch.yaml"

// Config is the whole configuration.
type Config struct {
	DefaultJob string                `yaml:"default_job"`
	Theme      string                `yaml:"theme"`
	Debug      bool                  `yaml:"debug"`
	Export     ExportConfig          `yaml:"export"`
	Jobs       map[string]*JobConfig `yaml:"jobs"`
}

// ExportConfig controls the locations file written after each run.
type ExportConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	LineFormat string `yaml:"line_format"`
}

// JobConfig describes one job.
type JobConfig struct {
	Command       []string          `yaml:"command"`
	Analyzer      string            `yaml:"analyzer,omitempty"`
	Ignore        []string          `yaml:"ignore,omitempty"`
	AllowWarnings bool              `yaml:"allow_warnings,omitempty"`
	AllowFailures bool              `yaml:"allow_failures,omitempty"`
	Env           map[string]string `yaml:"env,omitempty"`
	Dir           string            `yaml:"dir,omitempty"`

	kind   analysis.Kind
	ignore *analysis.IgnoreFilter
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultJob: "check",
		Theme:      "default",
		Export: ExportConfig{
			Path:       ".fowatch-locations",
			LineFormat: report.DefaultLocationFormat,
		},
		Jobs: map[string]*JobConfig{
			"check": {
				Command: []string{"cargo", "check", "--color", "always"},
			},
			"clippy": {
				Command: []string{"cargo", "clippy", "--all-targets", "--color", "always"},
			},
			"test": {
				Command: []string{"cargo", "test", "--color", "always", "--", "--color", "always"},
				Env:     map[string]string{"RUST_BACKTRACE": "0"},
			},
			"nextest": {
				Command: []string{"cargo", "nextest", "run", "--color", "always", "--hide-progress-bar", "--failure-output", "final"},
			},
			"go-test": {
				Command: []string{"go", "test", "-json", "./..."},
			},
			"go-vet": {
				Command: []string{"go", "vet", "./..."},
			},
		},
	}
}

// Load reads the configuration at path, or the first file FindPath finds
// when path is empty. Without any file the defaults are returned.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = FindPath()
	}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// FindPath looks for the configuration file in the working directory, then
// in the user config directory. It returns "" when there is none.
func FindPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	p := filepath.Join(configHome, "fowatch", FileName)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv("FOWATCH_THEME"); v != "" {
		c.Theme = v
	}
	if os.Getenv("NO_COLOR") != "" {
		c.Theme = "mono"
	}
	if v := os.Getenv("FOWATCH_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// Validate checks the configuration, resolves analyzers and compiles ignore
// patterns.
func Validate(c *Config) error {
	if !render.IsTheme(c.Theme) {
		return fmt.Errorf("theme: unknown theme %q (want one of %v)", c.Theme, render.ThemeNames())
	}
	if len(c.Jobs) == 0 {
		return errors.New("jobs: at least one job is required")
	}
	if _, ok := c.Jobs[c.DefaultJob]; !ok {
		return fmt.Errorf("default_job: no job named %q", c.DefaultJob)
	}
	if c.Export.Enabled && c.Export.Path == "" {
		return errors.New("export.path: required when export is enabled")
	}
	if c.Export.LineFormat == "" {
		c.Export.LineFormat = report.DefaultLocationFormat
	}
	for _, name := range c.JobNames() {
		if err := c.Jobs[name].resolve(); err != nil {
			return fmt.Errorf("jobs.%s.%w", name, err)
		}
	}
	return nil
}

func (j *JobConfig) resolve() error {
	if j == nil {
		return errors.New("command: job is empty")
	}
	if len(j.Command) == 0 || j.Command[0] == "" {
		return errors.New("command: at least the program is required")
	}
	if j.Analyzer == "" {
		j.kind = detect.FromCommand(j.Command)
	} else {
		k, err := analysis.ParseKind(j.Analyzer)
		if err != nil {
			return fmt.Errorf("analyzer: %w", err)
		}
		j.kind = k
	}
	f, err := analysis.CompileIgnore(j.Ignore)
	if err != nil {
		return err
	}
	j.ignore = f
	return nil
}

// JobNames returns the job names, sorted.
func (c *Config) JobNames() []string {
	names := make([]string, 0, len(c.Jobs))
	for n := range c.Jobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Job returns a validated job by name. An empty name selects the default job.
func (c *Config) Job(name string) (string, *JobConfig, error) {
	if name == "" {
		name = c.DefaultJob
	}
	j, ok := c.Jobs[name]
	if !ok {
		return "", nil, fmt.Errorf("no job named %q (known: %v)", name, c.JobNames())
	}
	return name, j, nil
}

// Kind returns the analyzer resolved by Validate.
func (j *JobConfig) Kind() analysis.Kind {
	return j.kind
}

// Mission returns what the analyzer needs to know about a run of the job.
func (j *JobConfig) Mission(name string) analysis.Mission {
	return analysis.Mission{Job: name, Analyzer: j.kind, Ignore: j.ignore}
}

// Spec returns what the execution layer needs to run the job.
func (j *JobConfig) Spec(name string) job.Spec {
	return job.Spec{Name: name, Command: j.Command, Env: j.Env, Dir: j.Dir}
}

// WithAnalyzer overrides the analyzer of a job, as the --analyzer flag does.
func (j *JobConfig) WithAnalyzer(k analysis.Kind) {
	j.kind = k
	j.Analyzer = k.String()
}
