package padron

import "strconv"

// DefaultConsultasMaximas applies when a roster carries no usable visit cap.
const DefaultConsultasMaximas = 999

// Record is a normalized roster row ready to persist.
type Record struct {
	Row              int               `json:"row"`
	TipoDoc          string            `json:"tipo_doc"`
	DNI              string            `json:"dni"`
	NroDoc           string            `json:"nro_doc"`
	CUIL             string            `json:"cuil"`
	Apellido         string            `json:"apellido"`
	Nombre           string            `json:"nombre"`
	ApellidoYNombre  string            `json:"apellido_y_nombre"`
	FechaNacimiento  string            `json:"fecha_nacimiento"`
	Sexo             string            `json:"sexo"`
	Telefono         string            `json:"telefono"`
	Celular          string            `json:"celular"`
	Email            string            `json:"email"`
	Domicilio        string            `json:"domicilio"`
	Localidad        string            `json:"localidad"`
	Provincia        string            `json:"provincia"`
	CodigoPostal     string            `json:"codigo_postal"`
	ObraSocialID     int64             `json:"obra_social_id"`
	NroAfiliado      string            `json:"nro_afiliado"`
	Plan             string            `json:"plan"`
	Parentesco       string            `json:"parentesco"`
	ConsultasMaximas int               `json:"consultas_maximas"`
	FechaAlta        string            `json:"fecha_alta"`
	Observaciones    string            `json:"observaciones"`
	Extra            map[string]string `json:"extra,omitempty"`
	Defaulted        []string          `json:"defaulted,omitempty"`
}

// stringFields lists the text fields of Record in destination order.
var stringFields = []struct {
	name string
	ptr  func(*Record) *string
}{
	{"tipo_doc", func(r *Record) *string { return &r.TipoDoc }},
	{"dni", func(r *Record) *string { return &r.DNI }},
	{"nro_doc", func(r *Record) *string { return &r.NroDoc }},
	{"cuil", func(r *Record) *string { return &r.CUIL }},
	{"apellido", func(r *Record) *string { return &r.Apellido }},
	{"nombre", func(r *Record) *string { return &r.Nombre }},
	{"apellido_y_nombre", func(r *Record) *string { return &r.ApellidoYNombre }},
	{"fecha_nacimiento", func(r *Record) *string { return &r.FechaNacimiento }},
	{"sexo", func(r *Record) *string { return &r.Sexo }},
	{"telefono", func(r *Record) *string { return &r.Telefono }},
	{"celular", func(r *Record) *string { return &r.Celular }},
	{"email", func(r *Record) *string { return &r.Email }},
	{"domicilio", func(r *Record) *string { return &r.Domicilio }},
	{"localidad", func(r *Record) *string { return &r.Localidad }},
	{"provincia", func(r *Record) *string { return &r.Provincia }},
	{"codigo_postal", func(r *Record) *string { return &r.CodigoPostal }},
	{"nro_afiliado", func(r *Record) *string { return &r.NroAfiliado }},
	{"plan", func(r *Record) *string { return &r.Plan }},
	{"parentesco", func(r *Record) *string { return &r.Parentesco }},
	{"fecha_alta", func(r *Record) *string { return &r.FechaAlta }},
	{"observaciones", func(r *Record) *string { return &r.Observaciones }},
}

func stringField(r *Record, field string) (*string, bool) {
	for _, f := range stringFields {
		if f.name == field {
			return f.ptr(r), true
		}
	}
	return nil, false
}

// Value returns the text form of a destination field, including template
// fields carried in Extra.
func (r Record) Value(field string) string {
	switch field {
	case "obra_social_id":
		if r.ObraSocialID == 0 {
			return ""
		}
		return strconv.FormatInt(r.ObraSocialID, 10)
	case "consultas_maximas":
		return strconv.Itoa(r.ConsultasMaximas)
	}
	if p, ok := stringField(&r, field); ok {
		return *p
	}
	return r.Extra[field]
}

// WasDefaulted reports whether field holds a default instead of roster data.
func (r Record) WasDefaulted(field string) bool {
	for _, f := range r.Defaulted {
		if f == field {
			return true
		}
	}
	return false
}

// UpdateFields returns the persisted columns to overwrite on an existing
// patient: every non-empty text field, the obra social, and the visit cap
// when the roster supplied one.
func (r Record) UpdateFields() map[string]any {
	fields := make(map[string]any)
	for _, f := range stringFields {
		if v := *f.ptr(&r); v != "" {
			fields[f.name] = v
		}
	}
	if r.ObraSocialID > 0 {
		fields["obra_social_id"] = r.ObraSocialID
	}
	if !r.WasDefaulted("consultas_maximas") {
		fields["consultas_maximas"] = r.ConsultasMaximas
	}
	return fields
}

// MissingRequired lists the required fields that are empty, in check order.
func (r Record) MissingRequired() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"dni", r.DNI},
		{"nombre", r.Nombre},
		{"apellido", r.Apellido},
		{"fecha_nacimiento", r.FechaNacimiento},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
