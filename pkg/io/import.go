package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"sigs.k8s.io/yaml"

	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
)

// Format is the syntax of a chart document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// maxDocumentSize bounds documents read from a stream.
const maxDocumentSize = 16 << 20

// DetectFormat picks the document format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

// ParseFormat validates a format name such as "yaml". An empty name is JSON.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", name)
}

// ToJSON converts a document in the given format to JSON.
func ToJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return data, nil
	case FormatYAML:
		out, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchemaViolation, err, "invalid YAML")
		}
		return out, nil
	case FormatTOML:
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchemaViolation, err, "invalid TOML")
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert TOML")
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
}

// ParseDocument decodes a chart or collection document held in memory.
// Collections that reference other files are rejected with UNSUPPORTED
// because there is no directory to resolve them against.
func ParseDocument(data []byte, format Format) (*chart.Collection, error) {
	coll, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	if idx := coll.Unresolved(); len(idx) > 0 {
		i := idx[0]
		return nil, errors.New(errors.ErrCodeUnsupported, "chart %d: file reference %q cannot be resolved here; inline the chart", i, coll.Charts[i].Path)
	}
	return coll, nil
}

// ReadDocument decodes a document from r.
func ReadDocument(r io.Reader, format Format) (*chart.Collection, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
	}
	if len(data) > maxDocumentSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document larger than %d bytes", maxDocumentSize)
	}
	return ParseDocument(data, format)
}

// ImportDocument reads the chart or collection file at path and loads every
// chart it references. A reference that fails to load is reported in its
// entry's Err rather than failing the document.
func ImportDocument(path string) (*chart.Collection, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	coll, err := parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ResolveRefs(coll, filepath.Dir(path))
	return coll, nil
}

// ReadLayoutFile reads a layout document such as the one written by the json
// format. The layouts are decoded by the render stage.
func ReadLayoutFile(path string) ([]byte, error) {
	return readFile(path)
}

// ImportChart reads a single chart file. Collections are rejected.
func ImportChart(path string) (*chart.Chart, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	js, err := ToJSON(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if chart.IsCollection(js) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: nested collections are not supported", path)
	}
	c, err := chart.Decode(js)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ResolveRefs loads every unresolved chart reference of coll from baseDir.
// A reference that cannot be loaded keeps its error in the entry.
func ResolveRefs(coll *chart.Collection, baseDir string) {
	for _, i := range coll.Unresolved() {
		ref := &coll.Charts[i]
		if err := errors.ValidatePath(ref.Path); err != nil {
			ref.Err = err
			continue
		}
		ref.Chart, ref.Err = ImportChart(filepath.Join(baseDir, filepath.FromSlash(ref.Path)))
	}
}

func parse(data []byte, format Format) (*chart.Collection, error) {
	js, err := ToJSON(data, format)
	if err != nil {
		return nil, err
	}
	return chart.DecodeCollection(js)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}
