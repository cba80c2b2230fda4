// Package email renders the import summary notification shared by all senders.
package email

import (
	"fmt"
	"html"
	"strings"

	"padron/internal/port"
)

// Subject returns the summary mail subject line.
func Subject(s port.ImportSummary) string {
	status := "completada"
	if s.ErrorCount > 0 {
		status = fmt.Sprintf("completada con %d errores", s.ErrorCount)
	}
	return fmt.Sprintf("Importación de padrón %s: %s", s.FileName, status)
}

// TextBody returns the plain-text summary.
func TextBody(s port.ImportSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Archivo: %s\n", s.FileName)
	if s.ObraSocial != "" {
		fmt.Fprintf(&b, "Obra social: %s\n", s.ObraSocial)
	}
	fmt.Fprintf(&b, "Modo: %s\n\n", s.Mode)
	fmt.Fprintf(&b, "Procesados: %d\nExitosos: %d (altas %d, actualizaciones %d)\nErrores: %d\n",
		s.Attempted, s.SuccessCount, s.Created, s.Updated, s.ErrorCount)
	if len(s.FirstErrors) > 0 {
		b.WriteString("\nPrimeros errores:\n")
		for _, e := range s.FirstErrors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}

// HTMLBody returns the HTML summary.
func HTMLBody(s port.ImportSummary) string {
	var rows strings.Builder
	for _, e := range s.FirstErrors {
		fmt.Fprintf(&rows, "<li>%s</li>", html.EscapeString(e))
	}
	errorsBlock := ""
	if rows.Len() > 0 {
		errorsBlock = "<p>Primeros errores:</p><ul>" + rows.String() + "</ul>"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Importación de padrón</h2>
  <p>Archivo: <strong>%s</strong><br>Obra social: %s<br>Modo: %s</p>
  <table style="border-collapse: collapse;">
    <tr><td>Procesados</td><td>%d</td></tr>
    <tr><td>Exitosos</td><td>%d</td></tr>
    <tr><td>Altas</td><td>%d</td></tr>
    <tr><td>Actualizaciones</td><td>%d</td></tr>
    <tr><td>Errores</td><td>%d</td></tr>
  </table>
  %s
</body>
</html>`, html.EscapeString(s.FileName), html.EscapeString(s.ObraSocial), html.EscapeString(s.Mode),
		s.Attempted, s.SuccessCount, s.Created, s.Updated, s.ErrorCount, errorsBlock)
}
