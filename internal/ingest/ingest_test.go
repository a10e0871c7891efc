package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"parameter,value",
		"vitals.heart_rate,72",
		"vitals.blood_pressure_systolic,118",
		"metabolic.glucose_fasting,92",
		"lifestyle.smoking_status,never",
		"patient_id,abc-123",
		"",
	}, "\n")

	raw, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	vitals, ok := raw["vitals"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "72", vitals["heart_rate"])
	assert.Equal(t, "118", vitals["blood_pressure_systolic"])

	metabolic, ok := raw["metabolic"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "92", metabolic["glucose_fasting"])

	lifestyle, ok := raw["lifestyle"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "never", lifestyle["smoking_status"])

	// Entries without a bundle prefix stay at the top level.
	assert.Equal(t, "abc-123", raw["patient_id"])
}

func TestReadCSV_NoHeader(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader("vitals.heart_rate,72\n"))
	require.NoError(t, err)

	vitals := raw["vitals"].(map[string]any)
	assert.Equal(t, "72", vitals["heart_rate"])
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("parameter,value\nvitals.heart_rate\n"))
	assert.Error(t, err)
}

func TestReadCSV_BlankValueSkipped(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader("vitals.heart_rate,\nvitals.bmi,22\n"))
	require.NoError(t, err)

	vitals := raw["vitals"].(map[string]any)
	_, present := vitals["heart_rate"]
	assert.False(t, present)
	assert.Equal(t, "22", vitals["bmi"])
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "parameter"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "value"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "vitals.heart_rate"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 72))
	require.NoError(t, f.SetCellValue(sheet, "A3", "lipids.hdl"))
	require.NoError(t, f.SetCellValue(sheet, "B3", 55))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	raw, err := ReadXLSX(&buf)
	require.NoError(t, err)

	vitals, ok := raw["vitals"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "72", vitals["heart_rate"])

	lipids, ok := raw["lipids"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "55", lipids["hdl"])
}

func TestReadXLSX_Garbage(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}
