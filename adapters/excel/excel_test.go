package excel

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"churnboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheetName string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow(sheetName, fmt.Sprintf("A%d", i+1), &row))
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadSheet(t *testing.T) {
	path := writeWorkbook(t, "Data", [][]interface{}{
		{" device ", "uptime"},
		{"d1", "5"},
		{"d2"}, // short row, uptime cell absent
	})

	reader := NewWorkbookReader(path)

	names, err := reader.SheetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Data"}, names)

	s, err := reader.ReadSheet("Data")
	require.NoError(t, err)
	assert.Equal(t, []string{"device", "uptime"}, s.Headers, "headers are trimmed")
	require.Len(t, s.Rows, 2)
	assert.Equal(t, "5", s.Rows[0]["uptime"])
	assert.Equal(t, "", s.Rows[1]["uptime"], "short rows are padded")
}

func TestReadSheetNotFound(t *testing.T) {
	path := writeWorkbook(t, "Data", [][]interface{}{{"a"}})

	_, err := NewWorkbookReader(path).ReadSheet("Missing")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestReadSheetMissingWorkbook(t *testing.T) {
	reader := NewWorkbookReader(filepath.Join(t.TempDir(), "absent.xlsx"))
	_, err := reader.ReadSheet("Data")
	require.Error(t, err)
	assert.False(t, os.IsNotExist(err), "open failures are wrapped")
}

func TestWritePredictionsRoundTrip(t *testing.T) {
	headers := []string{"device", "churn_probability", "churn_prediction"}
	rows := []map[string]string{
		{"device": "d1", "churn_probability": "0.9", "churn_prediction": "1"},
		{"device": "d2", "churn_probability": "0.1", "churn_prediction": "0"},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePredictions(&buf, "Predictions", headers, rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Predictions")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, headers, got[0])
	assert.Equal(t, []string{"d1", "0.9", "1"}, got[1])
	assert.Equal(t, []string{"d2", "0.1", "0"}, got[2])
}
