package padron

import (
	"encoding/json"
	"strings"
)

// FieldMapping assigns a source column to each destination field. An empty
// column means the field is unmapped. A source column may back several fields.
type FieldMapping map[string]string

// Column returns the source column mapped to field.
func (m FieldMapping) Column(field string) (string, bool) {
	col, ok := m[field]
	return col, ok && col != ""
}

// Mapped counts the destination fields that have a source column.
func (m FieldMapping) Mapped() int {
	n := 0
	for _, col := range m {
		if col != "" {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (m FieldMapping) Clone() FieldMapping {
	out := make(FieldMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MarshalJSON writes unmapped fields as null.
func (m FieldMapping) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(m))
	for field, col := range m {
		if col == "" {
			out[field] = nil
			continue
		}
		c := col
		out[field] = &c
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts null or "" for unmapped fields.
func (m *FieldMapping) UnmarshalJSON(data []byte) error {
	var in map[string]*string
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := make(FieldMapping, len(in))
	for field, col := range in {
		if col == nil {
			out[field] = ""
			continue
		}
		out[field] = *col
	}
	*m = out
	return nil
}

// MappingRule matches source column names to a destination field.
type MappingRule struct {
	Field     string
	Patterns  []string
	ExactOnly bool
}

// mappingRules is evaluated in order. Split name fields come before
// apellido_y_nombre so a roster carrying both keeps them apart, and short
// generic words like "doc" sit after the specific identifiers.
var mappingRules = []MappingRule{
	{Field: "tipo_doc", Patterns: []string{"tipo_doc", "tipo doc", "tipo documento", "tipo de documento", "tipodoc", "tipo"}, ExactOnly: true},
	{Field: "cuil", Patterns: []string{"cuil", "cuit", "cuil/cuit"}},
	{Field: "dni", Patterns: []string{"dni", "documento", "nro documento", "numero documento", "número documento", "numero de documento", "nro de documento", "num documento"}},
	{Field: "nro_doc", Patterns: []string{"nro_doc", "nro doc", "nrodoc", "num doc", "doc"}},
	{Field: "nombre", Patterns: []string{"nombre", "nombres", "primer nombre", "first name"}, ExactOnly: true},
	{Field: "apellido", Patterns: []string{"apellido", "apellidos", "last name"}, ExactOnly: true},
	{Field: "apellido_y_nombre", Patterns: []string{"apellido y nombre", "apellido_y_nombre", "apellidos y nombres", "nombre y apellido", "nombre completo", "ape y nom", "paciente", "beneficiario"}},
	{Field: "fecha_nacimiento", Patterns: []string{"fecha_nacimiento", "fecha nacimiento", "fecha de nacimiento", "f_nac", "f nac", "fnac", "fec nac", "nacimiento", "fecha nac"}},
	{Field: "sexo", Patterns: []string{"sexo", "genero", "género"}},
	{Field: "celular", Patterns: []string{"celular", "cel", "movil", "móvil"}, ExactOnly: true},
	{Field: "telefono", Patterns: []string{"telefono", "teléfono", "tel", "tel fijo"}},
	{Field: "email", Patterns: []string{"email", "e-mail", "mail", "correo"}},
	{Field: "domicilio", Patterns: []string{"domicilio", "direccion", "dirección", "calle"}},
	{Field: "localidad", Patterns: []string{"localidad", "ciudad"}},
	{Field: "provincia", Patterns: []string{"provincia", "prov"}},
	{Field: "codigo_postal", Patterns: []string{"codigo_postal", "codigo postal", "código postal", "cp", "cod postal"}, ExactOnly: true},
	{Field: "nro_afiliado", Patterns: []string{"nro_afiliado", "nro afiliado", "numero afiliado", "número afiliado", "numero de afiliado", "afiliado", "credencial"}},
	{Field: "plan", Patterns: []string{"plan"}},
	{Field: "obra_social_id", Patterns: []string{"obra_social_id", "obra social id", "id obra social"}, ExactOnly: true},
	{Field: "parentesco", Patterns: []string{"parentesco", "vinculo", "vínculo"}},
	{Field: "consultas_maximas", Patterns: []string{"consultas_maximas", "consultas maximas", "consultas máximas", "max consultas", "tope consultas"}},
	{Field: "fecha_alta", Patterns: []string{"fecha_alta", "fecha alta", "fecha de alta", "alta"}},
	{Field: "observaciones", Patterns: []string{"observaciones", "obs", "observacion", "observación", "notas"}},
}

// MappingRules returns a copy of the rule table.
func MappingRules() []MappingRule {
	return append([]MappingRule(nil), mappingRules...)
}

// RuleFor returns the rule for a destination field.
func RuleFor(field string) (MappingRule, bool) {
	for _, r := range mappingRules {
		if r.Field == field {
			return r, true
		}
	}
	return MappingRule{}, false
}

// NormalizeColumnName lower-cases s, turns periods into spaces and collapses
// whitespace, so "Nro. Doc" and "nro  doc" compare equal.
func NormalizeColumnName(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, ".", " "))
	return strings.Join(strings.Fields(s), " ")
}

// AutoMap assigns source columns to destination fields using the rule table.
// Each rule claims at most one column and a claimed column is not offered to
// later rules. Destination fields with no rule match a column whose
// normalized name equals the field name, underscores read as spaces. Every
// destination field is present in the result; unmatched ones are empty.
func AutoMap(destinationFields, sourceColumns []string) FieldMapping {
	mapping := make(FieldMapping, len(destinationFields))
	wanted := make(map[string]bool, len(destinationFields))
	for _, f := range destinationFields {
		mapping[f] = ""
		wanted[f] = true
	}

	normalized := make([]string, len(sourceColumns))
	for i, col := range sourceColumns {
		normalized[i] = NormalizeColumnName(col)
	}
	claimed := make([]bool, len(sourceColumns))

	claim := func(field string, patterns []string, exactOnly bool) {
		if i := matchColumn(normalized, claimed, patterns, exactOnly); i >= 0 {
			claimed[i] = true
			mapping[field] = sourceColumns[i]
		}
	}

	for _, rule := range mappingRules {
		if !wanted[rule.Field] || mapping[rule.Field] != "" {
			continue
		}
		claim(rule.Field, rule.Patterns, rule.ExactOnly)
	}

	for _, field := range destinationFields {
		if _, ok := RuleFor(field); ok || mapping[field] != "" {
			continue
		}
		claim(field, []string{strings.ReplaceAll(field, "_", " "), field}, true)
	}

	return mapping
}

// matchColumn returns the first unclaimed column equal to any pattern, or,
// unless exactOnly, the first one containing or contained in a pattern.
func matchColumn(columns []string, claimed []bool, patterns []string, exactOnly bool) int {
	norm := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if n := NormalizeColumnName(p); n != "" {
			norm = append(norm, n)
		}
	}

	for i, col := range columns {
		if claimed[i] || col == "" {
			continue
		}
		for _, p := range norm {
			if col == p {
				return i
			}
		}
	}
	if exactOnly {
		return -1
	}
	for i, col := range columns {
		if claimed[i] || col == "" {
			continue
		}
		for _, p := range norm {
			if strings.Contains(col, p) || strings.Contains(p, col) {
				return i
			}
		}
	}
	return -1
}
