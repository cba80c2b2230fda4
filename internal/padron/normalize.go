package padron

import (
	"strconv"
	"strings"
)

// NormalizeOptions carries operator choices that rows cannot supply.
type NormalizeOptions struct {
	// ObraSocialID is used when the roster has no usable obra social column.
	ObraSocialID int64
}

// Normalize converts every row. Record.Row is the 1-based data row position.
func Normalize(rows []Row, mapping FieldMapping, opts NormalizeOptions) []Record {
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = NormalizeRow(row, i+1, mapping, opts)
	}
	return records
}

// NormalizeRow converts a single row. It never fails; unusable values become
// empty strings or defaults.
func NormalizeRow(row Row, index int, mapping FieldMapping, opts NormalizeOptions) Record {
	cell := func(field string) CellValue {
		col, ok := mapping.Column(field)
		if !ok {
			return CellValue{}
		}
		return row[col]
	}
	text := func(field string) string {
		return strings.TrimSpace(cell(field).String())
	}

	rec := Record{Row: index}

	for _, f := range stringFields {
		switch f.name {
		case "fecha_nacimiento", "fecha_alta":
			*f.ptr(&rec) = fechaFromCell(cell(f.name))
		default:
			*f.ptr(&rec) = text(f.name)
		}
	}

	if rec.DNI == "" {
		rec.DNI = rec.NroDoc
	}
	rec.NroDoc = rec.DNI

	rec.Apellido, rec.Nombre, rec.ApellidoYNombre = resolveNames(rec.Apellido, rec.Nombre, rec.ApellidoYNombre)

	if id, err := strconv.ParseInt(numericText(text("obra_social_id")), 10, 64); err == nil && id > 0 {
		rec.ObraSocialID = id
	} else {
		rec.ObraSocialID = opts.ObraSocialID
		rec.Defaulted = append(rec.Defaulted, "obra_social_id")
	}

	if n, err := strconv.Atoi(numericText(text("consultas_maximas"))); err == nil {
		rec.ConsultasMaximas = n
	} else {
		rec.ConsultasMaximas = DefaultConsultasMaximas
		rec.Defaulted = append(rec.Defaulted, "consultas_maximas")
	}

	for field, col := range mapping {
		if col == "" || isRecordField(field) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[field] = strings.TrimSpace(row[col].String())
	}

	return rec
}

// resolveNames applies the name policy. Split columns win and the combined
// form is synthesized from them; otherwise the combined column is split.
func resolveNames(apellido, nombre, combined string) (string, string, string) {
	switch {
	case apellido != "" && nombre != "":
		return apellido, nombre, apellido + ", " + nombre
	case apellido != "" || nombre != "":
		if combined == "" {
			combined = apellido + nombre
		}
		return apellido, nombre, combined
	case combined != "":
		a, n := ParseApellidoYNombre(combined)
		return a, n, combined
	default:
		return "", "", ""
	}
}

// ParseApellidoYNombre splits a full name. With a comma the text before the
// first comma is the surname; without one the first word is the surname and
// the rest the given names.
func ParseApellidoYNombre(full string) (apellido, nombre string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	if i := strings.Index(full, ","); i >= 0 {
		return strings.TrimSpace(full[:i]), strings.TrimSpace(full[i+1:])
	}
	parts := strings.Fields(full)
	return parts[0], strings.Join(parts[1:], " ")
}

// numericText strips a trailing ".0" that numeric cells pick up on export.
func numericText(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func isRecordField(field string) bool {
	switch field {
	case "obra_social_id", "consultas_maximas":
		return true
	}
	_, ok := stringField(&Record{}, field)
	return ok
}
