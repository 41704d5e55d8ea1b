// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biofetch/pkg/types"
)

func sampleTable(t *testing.T) *types.Table {
	t.Helper()
	tbl, err := types.NewTable(
		[]string{"Run", "SampleName", "title", "spots", "size_MB"},
		[]types.Row{
			{types.String("SRR1"), types.String("GSM1"), types.String("liver, left lobe"), types.Int(100), types.Float(12.5)},
			{types.String("SRR2"), types.Null(), types.String("kidney"), types.Null(), types.Float(3)},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.csv", FormatCSV, false},
		{"OUT.CSV", FormatCSV, false},
		{"runs.tsv", FormatTSV, false},
		{"runs.txt", FormatTSV, false},
		{"dir/x.json", FormatJSON, false},
		{"x.yaml", FormatYAML, false},
		{"x.yml", FormatYAML, false},
		{"x.parquet", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteDelimitedCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, sampleTable(t), ','))
	want := "Run,SampleName,title,spots,size_MB\n" +
		"SRR1,GSM1,\"liver, left lobe\",100,12.5\n" +
		"SRR2,,kidney,,3\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDelimitedTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, sampleTable(t), '\t'))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SRR1\tGSM1\tliver, left lobe\t100\t12.5", lines[1])
}

func TestWriteDelimitedEmptyTableKeepsHeader(t *testing.T) {
	tbl, err := types.EmptyTable([]string{"GSE", "GSM"})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, tbl, ','))
	assert.Equal(t, "GSE,GSM\n", buf.String())
}

func TestWriteJSONPreservesOrderAndNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleTable(t)))

	out := buf.String()
	assert.Less(t, strings.Index(out, `"Run"`), strings.Index(out, `"SampleName"`))
	assert.Less(t, strings.Index(out, `"title"`), strings.Index(out, `"spots"`))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "GSM1", got[0]["SampleName"])
	assert.Equal(t, float64(100), got[0]["spots"])
	assert.Nil(t, got[1]["SampleName"])
	assert.Contains(t, got[1], "spots")
}

func TestWriteJSONEmpty(t *testing.T) {
	tbl, err := types.EmptyTable([]string{"a"})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, tbl))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleTable(t)))

	out := buf.String()
	assert.Less(t, strings.Index(out, "Run:"), strings.Index(out, "SampleName:"))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "SRR1", got[0]["Run"])
	assert.Equal(t, 100, got[0]["spots"])
	assert.Equal(t, 12.5, got[0]["size_MB"])
	assert.Equal(t, 3.0, got[1]["size_MB"])
	assert.Nil(t, got[1]["SampleName"])
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	tbl := sampleTable(t)

	for _, name := range []string{"a.csv", "nested/b.tsv", "c.json", "d.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, tbl), name)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "SRR2", name)
	}

	err := WriteFile(filepath.Join(dir, "e.xlsx"), tbl)
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "e.xlsx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	Preview(&buf, sampleTable(t), 1)
	out := buf.String()

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Run   SampleName"), "header: %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "----"))
	assert.Contains(t, lines[2], "SRR1")
	assert.NotContains(t, out, "SRR2")
	assert.Contains(t, out, "Total records: 2")
}

func TestPreviewTruncatesWideCells(t *testing.T) {
	long := strings.Repeat("x", 80)
	tbl, err := types.NewTable([]string{"title"}, []types.Row{{types.String(long)}})
	require.NoError(t, err)

	var buf bytes.Buffer
	Preview(&buf, tbl, PreviewRows)
	assert.Contains(t, buf.String(), strings.Repeat("x", maxCellWidth-3)+"...")
	assert.NotContains(t, buf.String(), long)
}
