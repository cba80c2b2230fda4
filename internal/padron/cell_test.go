package padron_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padron/internal/padron"
)

func TestClassifyRaw(t *testing.T) {
	tests := []struct {
		raw      string
		isNumber bool
		kind     padron.CellKind
		text     string
	}{
		{"", true, padron.CellUnknown, ""},
		{"30193269", true, padron.CellNumber, "30193269"},
		{"24797.5", true, padron.CellNumber, "24797.5"},
		{"3.0193269E7", true, padron.CellNumber, "30193269"},
		{"0123", true, padron.CellText, "0123"},
		{"1.50", true, padron.CellText, "1.50"},
		{"Aballay", false, padron.CellText, "Aballay"},
		{"12E3", false, padron.CellText, "12E3"},
		{"3.0193269E7", false, padron.CellText, "3.0193269E7"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := padron.ClassifyRaw(tt.raw, tt.isNumber)
			assert.Equal(t, tt.kind, c.Kind())
			assert.Equal(t, tt.text, c.String())
		})
	}
}

func TestCellValue_JSONRoundTrip(t *testing.T) {
	row := padron.Row{
		"DNI":    padron.Number(30193269),
		"Nombre": padron.Text("Diego"),
	}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"DNI":30193269,"Nombre":"Diego"}`, string(data))

	var back padron.Row
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, padron.CellNumber, back["DNI"].Kind())
	assert.Equal(t, "Diego", back["Nombre"].String())

	var unknown padron.CellValue
	require.NoError(t, json.Unmarshal([]byte("null"), &unknown))
	assert.True(t, unknown.IsEmpty())
}
