package padron_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padron/internal/padron"
)

func TestAutoMap_SplitNameRoster(t *testing.T) {
	m := padron.AutoMap(padron.DefaultDestinationFields, []string{"DNI", "Nombre", "Apellido", "F_NAC"})

	assert.Equal(t, "DNI", m["dni"])
	assert.Equal(t, "Nombre", m["nombre"])
	assert.Equal(t, "Apellido", m["apellido"])
	assert.Equal(t, "F_NAC", m["fecha_nacimiento"])
	assert.Equal(t, "", m["apellido_y_nombre"])
	assert.Equal(t, "", m["nro_doc"])
	assert.Len(t, m, len(padron.DefaultDestinationFields))
	assert.Equal(t, 4, m.Mapped())
}

func TestAutoMap_CombinedNameColumn(t *testing.T) {
	m := padron.AutoMap(padron.DefaultDestinationFields, []string{"Nro. Documento", "Apellido y Nombre", "Fecha de Nacimiento", "Nro Afiliado"})

	assert.Equal(t, "Nro. Documento", m["dni"])
	assert.Equal(t, "Apellido y Nombre", m["apellido_y_nombre"])
	assert.Equal(t, "", m["nombre"], "exact-only rule must not grab the combined column")
	assert.Equal(t, "", m["apellido"])
	assert.Equal(t, "Fecha de Nacimiento", m["fecha_nacimiento"])
	assert.Equal(t, "Nro Afiliado", m["nro_afiliado"])
}

func TestAutoMap_SplitColumnsWinOverCombined(t *testing.T) {
	m := padron.AutoMap(padron.DefaultDestinationFields, []string{"Nombre", "Apellido", "NOMBRE"})

	assert.Equal(t, "Nombre", m["nombre"])
	assert.Equal(t, "Apellido", m["apellido"])
	assert.Equal(t, "NOMBRE", m["apellido_y_nombre"])
}

func TestAutoMap_CaseOnlyDifferenceResolvedByColumnOrder(t *testing.T) {
	m := padron.AutoMap(padron.DefaultDestinationFields, []string{"NOMBRE", "Apellido", "Nombre"})

	assert.Equal(t, "NOMBRE", m["nombre"])
	assert.Equal(t, "Apellido", m["apellido"])
	assert.Equal(t, "Nombre", m["apellido_y_nombre"])
}

func TestAutoMap_ColumnClaimedOnce(t *testing.T) {
	m := padron.AutoMap([]string{"dni", "nro_doc"}, []string{"Documento"})

	assert.Equal(t, "Documento", m["dni"])
	assert.Equal(t, "", m["nro_doc"])
}

func TestAutoMap_ExactBeatsSubstring(t *testing.T) {
	m := padron.AutoMap([]string{"telefono"}, []string{"Telefono Laboral", "Tel"})
	assert.Equal(t, "Tel", m["telefono"])
}

func TestAutoMap_IgnoresFieldsOutsideSchema(t *testing.T) {
	m := padron.AutoMap([]string{"dni"}, []string{"DNI", "Nombre"})
	assert.Equal(t, padron.FieldMapping{"dni": "DNI"}, m)
}

func TestAutoMap_TemplateFieldWithoutRule(t *testing.T) {
	m := padron.AutoMap([]string{"dni", "centro_salud"}, []string{"DNI", "Centro  Salud"})
	assert.Equal(t, "Centro  Salud", m["centro_salud"])
}

func TestAutoMap_SkipsEmptyColumnNames(t *testing.T) {
	m := padron.AutoMap([]string{"sexo"}, []string{" ", "Sexo"})
	assert.Equal(t, "Sexo", m["sexo"])
}

func TestAutoMap_Deterministic(t *testing.T) {
	cols := []string{"Documento", "Apellido y Nombre", "F Nac", "Plan", "Parentesco", "Localidad"}
	first := padron.AutoMap(padron.DefaultDestinationFields, cols)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, padron.AutoMap(padron.DefaultDestinationFields, cols))
	}
}

func TestNormalizeColumnName(t *testing.T) {
	assert.Equal(t, "nro doc", padron.NormalizeColumnName("  Nro.Doc "))
	assert.Equal(t, "f_nac", padron.NormalizeColumnName("F_NAC"))
}

func TestFieldMapping_JSONNullForUnmapped(t *testing.T) {
	m := padron.FieldMapping{"dni": "DNI", "nombre": ""}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dni":"DNI","nombre":null}`, string(data))

	var back padron.FieldMapping
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}

func TestSuggest_RanksAbbreviations(t *testing.T) {
	cols := []string{"Domicilio", "FNac", "Nacimiento"}
	got := padron.Suggest("fecha_nacimiento", cols, padron.FieldMapping{"domicilio": "Domicilio"})

	require.NotEmpty(t, got)
	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.Column
	}
	assert.Contains(t, names, "FNac")
	assert.Contains(t, names, "Nacimiento")
	assert.NotContains(t, names, "Domicilio")
	assert.Equal(t, "FNac", got[0].Column)
	assert.Equal(t, 0, got[0].Distance)
}

func TestSuggest_ReportsOwner(t *testing.T) {
	got := padron.Suggest("nro_doc", []string{"Nro Doc"}, padron.FieldMapping{"dni": "Nro Doc"})
	require.Len(t, got, 1)
	assert.Equal(t, "dni", got[0].MappedTo)
}
