package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/spreadsheet"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer

	printSummary(&buf, "run-1", importer.Summary{TotalRows: 5, Created: 2, Updated: 1, Failed: 2, NotFound: 1, Duplicated: 1})

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Regexp(t, `rows\s+5`, out)
	assert.Regexp(t, `duplicated\s+1`, out)
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-resueltos.xlsx")

	err := writeReport(path, []importer.UnresolvedRow{{Row: 3, Name: "Ana Pérez", Reason: importer.ReasonNotFound}})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(spreadsheet.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana Pérez", rows[1][1])
}

func TestRunCmd_RequiresExistingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "--file", filepath.Join(t.TempDir(), "missing.xlsx")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--file")
}

func TestRunCmd_RequiresFileFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"run"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"file"`)
}
