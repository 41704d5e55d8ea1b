// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders Result Tables as CSV, TSV, JSON or YAML files and
// as a fixed-width terminal preview.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biofetch/pkg/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".txt":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output extension %q (want .csv, .tsv, .txt, .json, .yaml)", filepath.Ext(path))
}

// WriteFile writes t to path in the format its extension names.
func WriteFile(path string, t *types.Table) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, t, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Write encodes t to w in format f.
func Write(w io.Writer, t *types.Table, f Format) error {
	switch f {
	case FormatCSV:
		return WriteDelimited(w, t, ',')
	case FormatTSV:
		return WriteDelimited(w, t, '\t')
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatYAML:
		return WriteYAML(w, t)
	}
	return fmt.Errorf("unknown format %q", f)
}

// WriteDelimited writes a header row and one line per record. Null cells are
// written empty.
func WriteDelimited(w io.Writer, t *types.Table, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	cells := make([]string, t.Width())
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			cells[j] = v.Text()
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes t as an indented array of objects with keys in column
// order. Null cells are JSON null.
func WriteJSON(w io.Writer, t *types.Table) error {
	cols := t.Columns()
	keys := make([][]byte, len(cols))
	for j, c := range cols {
		k, err := json.Marshal(c)
		if err != nil {
			return err
		}
		keys[j] = k
	}

	var raw bytes.Buffer
	raw.WriteByte('[')
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			raw.WriteByte(',')
		}
		raw.WriteByte('{')
		for j, v := range t.Row(i) {
			if j > 0 {
				raw.WriteByte(',')
			}
			val, err := v.MarshalJSON()
			if err != nil {
				return fmt.Errorf("encoding row %d column %s: %w", i, cols[j], err)
			}
			raw.Write(keys[j])
			raw.WriteByte(':')
			raw.Write(val)
		}
		raw.WriteByte('}')
	}
	raw.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("indenting JSON: %w", err)
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

// WriteYAML writes t as a sequence of mappings with keys in column order.
func WriteYAML(w io.Writer, t *types.Table) error {
	cols := t.Columns()
	doc := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i := 0; i < t.Len(); i++ {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for j, v := range t.Row(i) {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cols[j]},
				yamlScalar(v))
		}
		doc.Content = append(doc.Content, m)
	}
	if len(doc.Content) == 0 {
		doc.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func yamlScalar(v types.Value) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode}
	switch v.Kind() {
	case types.KindString:
		n.Tag, n.Value = "!!str", v.Text()
	case types.KindInt:
		n.Tag, n.Value = "!!int", v.Text()
	case types.KindFloat:
		f, _ := v.Float64()
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		n.Tag, n.Value = "!!float", s
	default:
		n.Tag, n.Value = "!!null", "null"
	}
	return n
}
