package padron_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padron/internal/padron"
)

func TestNewSession_AppliesAutoMapping(t *testing.T) {
	d := &padron.Discovery{
		DestinationFields: padron.DefaultDestinationFields,
		SourceColumns:     []string{"DNI", "Nombre"},
		SourceRows:        []padron.Row{{"DNI": padron.Number(1)}, {"DNI": padron.Number(2)}},
		RowCount:          2,
	}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := padron.NewSession("padron.xlsx", d, now)

	assert.Equal(t, padron.StateMapping, s.State)
	assert.True(t, s.State.Idle())
	assert.Equal(t, "DNI", s.Mapping["dni"])
	assert.Len(t, s.Preview(1), 1)
	assert.Len(t, s.Preview(10), 2)
	assert.True(t, s.HasField("nro_afiliado"))
	assert.True(t, s.HasColumn("Nombre"))
	assert.False(t, s.HasColumn("nombre"))
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s := padron.NewSession("p.csv", &padron.Discovery{
		DestinationFields: []string{"dni"},
		SourceColumns:     []string{"DNI"},
		SourceRows:        []padron.Row{{"DNI": padron.Number(30193269)}},
	}, time.Now().UTC())
	s.Records = []padron.Record{{Row: 1, DNI: "30193269"}}
	s.State = padron.StateConverted

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var back padron.Session
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.ID, back.ID)
	assert.Equal(t, padron.StateConverted, back.State)
	assert.Equal(t, "30193269", back.Rows[0]["DNI"].String())
	assert.Equal(t, s.Mapping, back.Mapping)

	back.ResetConversion()
	assert.Nil(t, back.Records)
	assert.Equal(t, padron.StateMapping, back.State)
}
