package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cargoCheck = `    Checking demo v0.1.0 (/src/demo)
error[E0425]: cannot find value ` + "`x`" + ` in this scope
 --> src/main.rs:3:5
  |
3 |     x + 1
  |     ^ not found in this scope

warning: unused variable: ` + "`y`" + `
 --> src/lib.rs:7:9
  |
7 |     let y = 2;
  |         ^ help: if this is intentional, prefix it with an underscore: ` + "`_y`" + `
  |
  = note: ` + "`#[warn(unused_variables)]`" + ` on by default

error: could not compile ` + "`demo`" + ` (bin "demo") due to 1 previous error; 1 warning emitted
`

const goTestJSON = `{"Action":"start","Package":"example.com/calc"}
{"Action":"run","Package":"example.com/calc","Test":"TestAdd"}
{"Action":"output","Package":"example.com/calc","Test":"TestAdd","Output":"=== RUN   TestAdd\n"}
{"Action":"output","Package":"example.com/calc","Test":"TestAdd","Output":"    calc_test.go:12: got 3, want 4\n"}
{"Action":"output","Package":"example.com/calc","Test":"TestAdd","Output":"--- FAIL: TestAdd (0.00s)\n"}
{"Action":"fail","Package":"example.com/calc","Test":"TestAdd","Elapsed":0}
{"Action":"run","Package":"example.com/calc","Test":"TestSub"}
{"Action":"pass","Package":"example.com/calc","Test":"TestSub","Elapsed":0}
{"Action":"output","Package":"example.com/calc","Output":"FAIL\n"}
{"Action":"fail","Package":"example.com/calc","Elapsed":0.01}
`

// configFile writes a config to a temp dir and returns its path.
func configFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), ".fowatch.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	t.Setenv("FOWATCH_THEME", "")
	t.Setenv("FOWATCH_DEBUG", "")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestAnalyze_ReportsCargoErrors_When_FormatPlain(t *testing.T) {
	cfg := configFile(t, "theme: mono\n")
	code, out, _ := runCLI(t, cargoCheck, "--config", cfg, "analyze", "--analyzer", "standard", "--format", "plain", "--job", "check")

	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(out, "check: failed (errors=1 warnings=1 test_fails=0"), out)
	assert.Contains(t, out, "error[E0425]: cannot find value `x` in this scope")
	assert.Contains(t, out, " --> src/lib.rs:7:9")
	assert.NotContains(t, out, "Checking demo")
}

func TestAnalyze_DetectsGoTestJSON_When_NoAnalyzerGiven(t *testing.T) {
	cfg := configFile(t, "theme: mono\n")
	code, out, _ := runCLI(t, goTestJSON, "--config", cfg, "analyze", "--format", "json")

	assert.Equal(t, 1, code)
	var got struct {
		Success bool `json:"success"`
		Stats   struct {
			TestFails   int `json:"test_fails"`
			PassedTests int `json:"passed_tests"`
		} `json:"stats"`
		Items []struct {
			Kind     string `json:"kind"`
			Location string `json:"location"`
		} `json:"items"`
		FailureKeys []string `json:"failure_keys"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.False(t, got.Success)
	assert.Equal(t, 1, got.Stats.TestFails)
	assert.Equal(t, 1, got.Stats.PassedTests)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "test", got.Items[0].Kind)
	assert.Equal(t, "calc_test.go:12", got.Items[0].Location)
	assert.Equal(t, []string{"example.com/calc TestAdd"}, got.FailureKeys)
}

func TestAnalyze_WritesLocations_When_FormatLocations(t *testing.T) {
	cfg := configFile(t, "theme: mono\n")
	code, out, _ := runCLI(t, cargoCheck, "--config", cfg, "analyze", "--format", "locations", "--line-format", "{kind} {path}:{line} {diag_type}")

	assert.Equal(t, 1, code)
	assert.Equal(t, "error src/main.rs:3 E0425\nwarning src/lib.rs:7 unused_variables\n", out)
}

func TestAnalyze_DropsIgnoredLines(t *testing.T) {
	cfg := configFile(t, "theme: mono\n")
	code, out, _ := runCLI(t, cargoCheck, "--config", cfg, "analyze", "--format", "plain", "--ignore", "^warning: unused")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "warnings=0")
}

func TestAnalyze_Succeeds_When_OutputIsClean(t *testing.T) {
	cfg := configFile(t, "theme: mono\n")
	code, out, _ := runCLI(t, "    Finished `dev` profile [unoptimized + debuginfo] target(s) in 0.31s\n", "--config", cfg, "analyze", "--format", "plain")

	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "analyze: ok"), out)
}

func TestAnalyze_ReturnsUsageError_When_ArgumentsInvalid(t *testing.T) {
	cfg := configFile(t, "theme: mono\n")
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown analyzer", args: []string{"analyze", "--analyzer", "maven"}, wantErr: `unknown analyzer "maven"`},
		{name: "unknown format", args: []string{"analyze", "--format", "html"}, wantErr: `unknown format "html"`},
		{name: "bad ignore", args: []string{"analyze", "--ignore", "("}, wantErr: "ignore[0]"},
		{name: "unknown theme", args: []string{"--theme", "neon", "analyze"}, wantErr: `unknown theme "neon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, cargoCheck, append([]string{"--config", cfg}, tt.args...)...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestRoot_RunsJob_When_UIPlain(t *testing.T) {
	dir := t.TempDir()
	locs := filepath.Join(dir, "locations")
	cfg := configFile(t, `
default_job: build
theme: mono
export:
  enabled: true
  path: `+locs+`
jobs:
  build:
    command: [sh, -c, "echo 'error: boom' >&2; echo ' --> src/main.rs:1:1' >&2; exit 101"]
    analyzer: standard
  quiet:
    command: [sh, -c, "echo fine"]
  crash:
    command: [sh, -c, "echo 'Segmentation fault' >&2; exit 139"]
`)

	code, out, _ := runCLI(t, "", "--config", cfg, "--ui", "plain")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "build: failed (errors=1")
	assert.Contains(t, out, "error: boom")
	data, err := os.ReadFile(locs)
	require.NoError(t, err)
	assert.Equal(t, "error src/main.rs:1:1 boom\n", string(data))

	code, out, _ = runCLI(t, "", "--config", cfg, "--ui", "plain", "quiet")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "quiet: ok"), out)

	code, out, _ = runCLI(t, "", "--config", cfg, "--ui", "plain", "crash")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Segmentation fault")
	assert.Contains(t, out, "exit=139")
}

func TestRoot_ReturnsUsageError_When_JobUnknown(t *testing.T) {
	cfg := configFile(t, "theme: mono\n")
	code, _, errOut := runCLI(t, "", "--config", cfg, "--ui", "plain", "deploy")

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `no job named "deploy"`)
}

func TestJobs_ListsConfiguredJobs(t *testing.T) {
	cfg := configFile(t, "default_job: lint\njobs:\n  lint:\n    command: [npx, eslint, src]\n")
	code, out, _ := runCLI(t, "", "--config", cfg, "jobs")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ANALYZER")
	assert.Contains(t, out, "* lint")
	assert.Contains(t, out, "eslint")
	assert.Contains(t, out, "npx eslint src")
	assert.Contains(t, out, "  check")
}

func TestVersion_PrintsBanner(t *testing.T) {
	code, out, _ := runCLI(t, "", "version")

	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "fowatch dev"), out)
}
