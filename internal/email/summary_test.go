package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"padron/internal/email"
	"padron/internal/port"
)

func TestSummaryRendering(t *testing.T) {
	s := port.ImportSummary{
		FileName:     "padron <marzo>.xlsx",
		ObraSocial:   "OSDE",
		Mode:         "all",
		Attempted:    3,
		SuccessCount: 2,
		Created:      1,
		Updated:      1,
		ErrorCount:   1,
		FirstErrors:  []string{"row 2: missing required fields: dni"},
	}

	assert.Contains(t, email.Subject(s), "con 1 errores")
	assert.Contains(t, email.TextBody(s), "Exitosos: 2 (altas 1, actualizaciones 1)")
	assert.Contains(t, email.TextBody(s), "row 2: missing required fields: dni")

	body := email.HTMLBody(s)
	assert.Contains(t, body, "padron &lt;marzo&gt;.xlsx")
	assert.NotContains(t, body, "<marzo>")
}

func TestSubject_NoErrors(t *testing.T) {
	assert.Equal(t, "Importación de padrón p.csv: completada", email.Subject(port.ImportSummary{FileName: "p.csv"}))
}
