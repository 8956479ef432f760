package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqsee/pkg/errors"
)

const testChart = `
header:
  metadata:
    title: E2
nodes:
  a: {x: 0, y: 0}
  b: {x: 1, y: 1, label: h0}
edges:
  - {source: a, target: b}
`

const danglingChart = `{"nodes": {"a": {"x": 0, "y": 0}}, "edges": [{"source": "a", "target": "zz"}]}`

// setupEnv isolates the cache and config directories and returns a working
// directory for input files.
func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return t.TempDir()
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderWritesEveryFormat(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)

	out, err := runCLI(t, "render", input, "-f", "html,svg,json,dot")
	if err != nil {
		t.Fatalf("render error = %v\n%s", err, out)
	}
	for _, name := range []string{"e2.html", "e2.svg", "e2.layout.json", "e2.dot"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if !strings.Contains(out, "Rendered "+input) {
		t.Errorf("output %q does not report the render", out)
	}
	if !strings.Contains(out, "fresh") {
		t.Errorf("first render should not be cached:\n%s", out)
	}

	again, err := runCLI(t, "render", input, "-f", "html,svg,json,dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(again, "cached") {
		t.Errorf("second render should be cached:\n%s", again)
	}
}

func TestRenderSingleOutput(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)
	output := filepath.Join(dir, "out", "page.svg")

	if out, err := runCLI(t, "render", input, "-f", "svg", "-o", output, "--no-cache"); err != nil {
		t.Fatalf("render error = %v\n%s", err, out)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Errorf("output does not start with <svg: %.40q", data)
	}
}

func TestRenderStdout(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)

	out, err := runCLI(t, "render", input, "-f", "json", "-o", "-")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	var doc struct {
		Title  string            `json:"title"`
		Charts []json.RawMessage `json:"charts"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if doc.Title != "E2" || len(doc.Charts) != 1 {
		t.Errorf("document = %+v", doc)
	}

	if _, err := runCLI(t, "render", input, "-f", "json,svg", "-o", "-"); err == nil {
		t.Error("stdout with two formats should fail")
	}
}

func TestRenderErrors(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)
	dangling := writeInput(t, dir, "bad.json", danglingChart)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"invalid format", []string{"render", input, "-f", "png"}, errors.ErrCodeInvalidFormat},
		{"missing input", []string{"render", filepath.Join(dir, "absent.json")}, errors.ErrCodeFileNotFound},
		{"every chart fails", []string{"render", dangling}, errors.ErrCodeDanglingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderPartialFailure(t *testing.T) {
	dir := setupEnv(t)
	writeInput(t, dir, "bad.json", danglingChart)
	input := writeInput(t, dir, "book.json", `{"charts": [{"nodes": {"a": {"x": 0, "y": 0}}}, "bad.json", "absent.json", {"nodes": {"a": {}}}]}`)

	out, err := runCLI(t, "render", input, "-f", "svg")
	if err != nil {
		t.Fatalf("render error = %v\n%s", err, out)
	}
	for _, want := range []string{"chart 1: DANGLING_REFERENCE", "chart 2: FILE_NOT_FOUND", "chart 3: SCHEMA_VIOLATION"} {
		if !strings.Contains(out, want) {
			t.Errorf("failed chart %q not reported:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "book.svg")); err != nil {
		t.Errorf("book.svg not written: %v", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)

	out, err := runCLI(t, "layout", input)
	if err != nil {
		t.Fatalf("layout error = %v", err)
	}
	if !strings.Contains(out, `"nodes"`) {
		t.Errorf("layout output is missing nodes:\n%s", out)
	}

	output := filepath.Join(dir, "e2.layout.json")
	if _, err := runCLI(t, "layout", input, "-o", output); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(out, string(data)); diff != "" {
		t.Errorf("file and stdout differ (-stdout +file):\n%s", diff)
	}
}

func TestRenderFromLayout(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)
	saved := filepath.Join(dir, "e2.layout.json")
	if out, err := runCLI(t, "layout", input, "-o", saved); err != nil {
		t.Fatalf("layout error = %v\n%s", err, out)
	}
	direct := filepath.Join(dir, "direct.svg")
	if out, err := runCLI(t, "render", input, "-f", "svg", "-o", direct); err != nil {
		t.Fatalf("render error = %v\n%s", err, out)
	}

	out, err := runCLI(t, "render", saved, "-f", "svg")
	if err != nil {
		t.Fatalf("render layout error = %v\n%s", err, out)
	}
	want, _ := os.ReadFile(direct)
	got, err := os.ReadFile(filepath.Join(dir, "e2.svg"))
	if err != nil {
		t.Fatalf("e2.svg not written: %v\n%s", err, out)
	}
	if !bytes.Equal(want, got) {
		t.Error("svg rendered from the layout differs from the chart's svg")
	}

	renamed := writeInput(t, dir, "saved.json", string(mustRead(t, saved)))
	if out, err := runCLI(t, "render", renamed, "--from-layout", "-f", "svg", "-o", "-"); err != nil || !strings.HasPrefix(out, "<svg") {
		t.Errorf("--from-layout = %.40q, %v", out, err)
	}
	if _, err := runCLI(t, "render", renamed, "-f", "svg"); err == nil {
		t.Error("a layout without --from-layout should not decode as a chart")
	}
}

func TestRenderKeepsInput(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)
	saved := filepath.Join(dir, "e2.layout.json")
	if _, err := runCLI(t, "layout", input, "-o", saved); err != nil {
		t.Fatal(err)
	}
	before := mustRead(t, saved)

	for _, args := range [][]string{
		{"render", saved, "-f", "json"},
		{"render", saved, "-f", "json", "-o", saved},
	} {
		if _, err := runCLI(t, args...); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%v: error = %v, want INVALID_INPUT", args, err)
		}
	}
	if !bytes.Equal(before, mustRead(t, saved)) {
		t.Error("input layout was modified")
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestValidateCommand(t *testing.T) {
	dir := setupEnv(t)
	good := writeInput(t, dir, "e2.yaml", testChart)
	bad := writeInput(t, dir, "bad.json", danglingChart)

	out, err := runCLI(t, "validate", good)
	if err != nil {
		t.Fatalf("validate error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 chart valid") {
		t.Errorf("output:\n%s", out)
	}

	out, err = runCLI(t, "validate", good, bad)
	if err == nil || err.Error() != "1 of 2 charts invalid" {
		t.Errorf("error = %v, want 1 of 2 charts invalid", err)
	}
	if !strings.Contains(out, "DANGLING_REFERENCE") {
		t.Errorf("output does not name the failure:\n%s", out)
	}
}

func TestConfigFileDefaults(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)
	cfg := writeInput(t, dir, "seqsee.toml", "[render]\nformats = [\"svg\"]\nno_grid = true\n")

	if out, err := runCLI(t, "--config", cfg, "render", input); err != nil {
		t.Fatalf("render error = %v\n%s", err, out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "e2.svg"))
	if err != nil {
		t.Fatalf("config formats not applied: %v", err)
	}
	if bytes.Contains(data, []byte(`class="grid"`)) {
		t.Error("no_grid from config not applied")
	}
	if _, err := os.Stat(filepath.Join(dir, "e2.html")); err == nil {
		t.Error("default html format should be replaced by the config")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := setupEnv(t)

	cfg, err := loadConfig("")
	if err != nil || len(cfg.Render.Formats) != 0 {
		t.Errorf("missing default config = %+v, %v", cfg, err)
	}

	if _, err := loadConfig(filepath.Join(dir, "absent.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit config error = %v, want FILE_NOT_FOUND", err)
	}

	unknown := writeInput(t, dir, "unknown.toml", "[render]\nformat = \"svg\"\n")
	if _, err := loadConfig(unknown); err == nil || !strings.Contains(err.Error(), "render.format") {
		t.Errorf("unknown key error = %v", err)
	}

	full := writeInput(t, dir, "full.toml", `
[render]
workers = 2

[cache]
redis_url = "redis://localhost:6379/1"

[server]
addr = ":9090"
timeout = "5s"
`)
	cfg, err = loadConfig(full)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Render.Workers != 2 || cfg.Cache.RedisURL == "" || cfg.Server.Addr != ":9090" || cfg.Server.Timeout.Seconds() != 5 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := setupEnv(t)
	input := writeInput(t, dir, "e2.yaml", testChart)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	out, err = runCLI(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on empty cache = %q, %v", out, err)
	}

	if _, err := runCLI(t, "render", input, "-f", "svg"); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cleared file cache") {
		t.Errorf("clear = %q, %v", out, err)
	}
	entries, err := os.ReadDir(want)
	if err != nil || len(entries) != 0 {
		t.Errorf("cache dir after clear = %v, %v", entries, err)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "charts/e2.yaml", "charts/e2"},
		{"out/page", "e2.json", "out/page"},
		{"out/page.svg", "e2.json", "out/page"},
		{"out/page.dot.svg", "e2.json", "out/page"},
		{"out/page.layout.json", "e2.json", "out/page"},
		{"out/page.json", "e2.json", "out/page"},
		{"out/page.v2", "e2.json", "out/page.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"html"}},
		{"svg", []string{"svg"}},
		{"svg, json,", []string{"svg", "json"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseFormats(tt.in)); diff != "" {
			t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
