package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
)

const yamlChart = `
header:
  metadata:
    title: E2 page
  chart:
    nodeSlope: null
nodes:
  a: {x: 0, y: 0}
  b: {x: 1, y: 1, label: h0}
edges:
  - {source: a, target: b}
`

const tomlChart = `
[header.metadata]
title = "E2 page"

[header.chart]
nodeSlope = "vertical"

[nodes.a]
x = 0
y = 0

[nodes.b]
x = 1
y = 1
label = "h0"

[[edges]]
source = "a"
target = "b"
`

const jsonChart = `{
	"header": {"metadata": {"title": "E2 page"}, "chart": {"nodeSlope": null}},
	"nodes": {"a": {"x": 0, "y": 0}, "b": {"x": 1, "y": 1, "label": "h0"}},
	"edges": [{"source": "a", "target": "b"}]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"chart.json", FormatJSON, false},
		{"chart.YAML", FormatYAML, false},
		{"dir/chart.yml", FormatYAML, false},
		{"chart.toml", FormatTOML, false},
		{"chart.txt", "", true},
		{"chart", "", true},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("DetectFormat(%q) error = %v, want INVALID_FORMAT", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "toml": FormatTOML} {
		if got, err := ParseFormat(name); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", name, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestParseDocumentFormatsAgree(t *testing.T) {
	docs := map[Format]string{
		FormatJSON: jsonChart,
		FormatYAML: yamlChart,
		FormatTOML: tomlChart,
	}
	var want []byte
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		coll, err := ParseDocument([]byte(docs[f]), f)
		if err != nil {
			t.Fatalf("ParseDocument(%s) error = %v", f, err)
		}
		if len(coll.Charts) != 1 {
			t.Fatalf("%s: len(Charts) = %d", f, len(coll.Charts))
		}
		c := coll.Charts[0].Chart
		if !c.Header.Config.NodeSlope.Vertical {
			t.Errorf("%s: NodeSlope = %+v, want vertical", f, c.Header.Config.NodeSlope)
		}
		got, err := chart.Encode(c)
		if err != nil {
			t.Fatal(err)
		}
		if want == nil {
			want = got
			continue
		}
		if diff := cmp.Diff(string(want), string(got)); diff != "" {
			t.Errorf("%s differs from JSON (-json +%s):\n%s", f, f, diff)
		}
	}
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		code   errors.Code
	}{
		{"bad yaml", "nodes: [", FormatYAML, errors.ErrCodeSchemaViolation},
		{"bad toml", "nodes = ", FormatTOML, errors.ErrCodeSchemaViolation},
		{"unknown field", `{"bogus": 1}`, FormatJSON, errors.ErrCodeSchemaViolation},
		{"file reference", `{"charts": ["e3.json"]}`, FormatJSON, errors.ErrCodeUnsupported},
		{"bad format", `{}`, Format("xml"), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.doc), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("ParseDocument() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadDocumentTooLarge(t *testing.T) {
	r := strings.NewReader(strings.Repeat(" ", maxDocumentSize+1))
	if _, err := ReadDocument(r, FormatJSON); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadDocument() error = %v, want INVALID_INPUT", err)
	}
}

func TestImportDocumentResolvesRefs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pages/e2.yaml", yamlChart)
	writeFile(t, dir, "pages/e3.toml", tomlChart)
	path := writeFile(t, dir, "book.json", `{
		"header": {"metadata": {"htmltitle": "Book"}},
		"charts": ["pages/e2.yaml", {"nodes": {}}, "pages/e3.toml"]
	}`)

	coll, err := ImportDocument(path)
	if err != nil {
		t.Fatalf("ImportDocument() error = %v", err)
	}
	charts, _, err := coll.Loaded()
	if err != nil {
		t.Fatalf("Loaded() error = %v", err)
	}
	if len(charts) != 3 {
		t.Fatalf("len(charts) = %d, want 3", len(charts))
	}
	if charts[0].Nodes.Len() != 2 || charts[1].Nodes.Len() != 0 || charts[2].Nodes.Len() != 2 {
		t.Errorf("node counts = %d, %d, %d", charts[0].Nodes.Len(), charts[1].Nodes.Len(), charts[2].Nodes.Len())
	}
	if coll.Charts[0].Path != "pages/e2.yaml" {
		t.Errorf("Path = %q, want kept", coll.Charts[0].Path)
	}
	if got := coll.Title(); got != "Book" {
		t.Errorf("Title() = %q", got)
	}
}

func TestImportDocumentRefErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nested.json", `{"charts": []}`)
	writeFile(t, dir, "good.json", `{"nodes": {}}`)
	tests := []struct {
		name string
		ref  string
		code errors.Code
	}{
		{"missing ref", "nope.json", errors.ErrCodeFileNotFound},
		{"traversal", "../x.json", errors.ErrCodeInvalidPath},
		{"absolute", "/etc/x.json", errors.ErrCodeInvalidPath},
		{"nested collection", "nested.json", errors.ErrCodeInvalidInput},
		{"bad ref extension", "x.txt", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "book.json", `{"charts": ["good.json", "`+tt.ref+`"]}`)
			coll, err := ImportDocument(path)
			if err != nil {
				t.Fatalf("ImportDocument() error = %v", err)
			}
			if r := coll.Charts[0]; r.Chart == nil || r.Err != nil {
				t.Errorf("good chart = %+v", r)
			}
			if r := coll.Charts[1]; r.Chart != nil || !errors.Is(r.Err, tt.code) {
				t.Errorf("chart 1 error = %v, want %s", r.Err, tt.code)
			}
			if got := coll.Unresolved(); len(got) != 0 {
				t.Errorf("Unresolved() = %v, want none", got)
			}
		})
	}
}

func TestImportDocumentKeepsBadInlineChart(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "book.yaml", "charts:\n  - nodes: {a: {}}\n  - nodes: {a: {x: 0, y: 0}}\n")
	coll, err := ImportDocument(path)
	if err != nil {
		t.Fatalf("ImportDocument() error = %v", err)
	}
	charts, index, err := coll.Loaded()
	if err != nil {
		t.Fatalf("Loaded() error = %v", err)
	}
	if len(charts) != 1 || index[0] != 1 {
		t.Errorf("Loaded() indices = %v, want [1]", index)
	}
	if !errors.Is(coll.Charts[0].Err, errors.ErrCodeSchemaViolation) {
		t.Errorf("chart 0 error = %v, want SCHEMA_VIOLATION", coll.Charts[0].Err)
	}
}

func TestImportDocumentMissing(t *testing.T) {
	_, err := ImportDocument(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportDocument() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out", "e2")
	paths, err := WriteArtifacts(base, map[string][]byte{
		"svg":     []byte("<svg/>"),
		"json":    []byte("{}"),
		"dot-svg": []byte("<svg/>"),
	})
	if err != nil {
		t.Fatalf("WriteArtifacts() error = %v", err)
	}
	want := []string{base + ".dot.svg", base + ".layout.json", base + ".svg"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(base + ".layout.json")
	if err != nil || string(data) != "{}" {
		t.Errorf("layout file = %q, %v", data, err)
	}
}

func TestBaseNameAndExtension(t *testing.T) {
	for path, want := range map[string]string{
		"pages/e2.yaml":        "pages/e2",
		"pages/e2.layout.json": "pages/e2",
		"pages/e2.json":        "pages/e2",
		"E2.LAYOUT.JSON":       "E2",
	} {
		if got := BaseName(path); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", path, got, want)
		}
	}
	if got := Extension("html"); got != ".html" {
		t.Errorf("Extension(html) = %q", got)
	}
	if got := Extension("png"); got != ".png" {
		t.Errorf("Extension(png) = %q", got)
	}
}

func TestIsLayoutPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"out/e2.layout.json", true},
		{"E2.Layout.JSON", true},
		{"e2.json", false},
		{"layout.json", false},
		{"e2.layout.yaml", false},
	}
	for _, tt := range tests {
		if got := IsLayoutPath(tt.path); got != tt.want {
			t.Errorf("IsLayoutPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadLayoutFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "e2.layout.json", `{"charts": []}`)
	data, err := ReadLayoutFile(path)
	if err != nil || string(data) != `{"charts": []}` {
		t.Errorf("ReadLayoutFile() = %q, %v", data, err)
	}
	if _, err := ReadLayoutFile(filepath.Join(dir, "absent.layout.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadLayoutFile() error = %v, want FILE_NOT_FOUND", err)
	}
}
