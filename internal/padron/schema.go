// Package padron turns an insurer's beneficiary roster into patient records:
// it discovers the file schema, maps source columns onto destination fields,
// normalizes rows, reconciles them against existing patients by DNI and
// commits the result through a RecordWriter.
package padron

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultDestinationFields is the destination schema used when no template is
// supplied or the template header is empty.
var DefaultDestinationFields = []string{
	"tipo_doc",
	"dni",
	"nro_doc",
	"cuil",
	"apellido",
	"nombre",
	"apellido_y_nombre",
	"fecha_nacimiento",
	"sexo",
	"telefono",
	"celular",
	"email",
	"domicilio",
	"localidad",
	"provincia",
	"codigo_postal",
	"obra_social_id",
	"nro_afiliado",
	"plan",
	"parentesco",
	"consultas_maximas",
	"fecha_alta",
	"observaciones",
}

// Input is an uploaded file.
type Input struct {
	Name string
	Data []byte
}

// Discovery is the outcome of reading the template and roster files.
type Discovery struct {
	DestinationFields []string `json:"destination_fields"`
	SourceColumns     []string `json:"source_columns"`
	SourceRows        []Row    `json:"-"`
	RowCount          int      `json:"row_count"`
	TemplateUsed      bool     `json:"template_used"`
}

// IsWorkbook reports whether name has a spreadsheet extension.
func IsWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// IsDelimited reports whether name has a delimited-text extension.
func IsDelimited(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return true
	}
	return false
}

// ParseRoster reads a roster file, picking the parser from its extension.
func ParseRoster(in Input) (*Sheet, error) {
	var (
		sheet *Sheet
		err   error
	)
	switch {
	case IsWorkbook(in.Name):
		sheet, err = ParseWorkbook(bytes.NewReader(in.Data))
	case IsDelimited(in.Name):
		sheet, err = ParseDelimited(in.Data)
	default:
		err = fmt.Errorf("unsupported file format %q", filepath.Ext(in.Name))
	}
	if err != nil {
		return nil, newFileParseError(in.Name, err)
	}
	if len(sheet.Columns) == 0 {
		return nil, &FileParseError{File: in.Name, Cause: "roster has no header row"}
	}
	return sheet, nil
}

// ParseTemplate reads the destination schema from a template's header row.
// An empty header yields DefaultDestinationFields.
func ParseTemplate(in Input) ([]string, bool, error) {
	sheet, err := ParseDelimited(in.Data)
	if err != nil {
		return nil, false, newFileParseError(in.Name, err)
	}
	var fields []string
	for _, col := range sheet.Columns {
		if strings.HasPrefix(col, "__EMPTY") {
			continue
		}
		fields = append(fields, col)
	}
	if len(fields) == 0 {
		return defaultFields(), false, nil
	}
	return fields, true, nil
}

// Discover reads the optional template and the roster. Any parse failure is
// returned as a *FileParseError and nothing else is produced.
func Discover(roster Input, template *Input) (*Discovery, error) {
	fields := defaultFields()
	used := false
	if template != nil && len(template.Data) > 0 {
		var err error
		fields, used, err = ParseTemplate(*template)
		if err != nil {
			return nil, err
		}
	}

	sheet, err := ParseRoster(roster)
	if err != nil {
		return nil, err
	}

	return &Discovery{
		DestinationFields: fields,
		SourceColumns:     sheet.Columns,
		SourceRows:        sheet.Rows,
		RowCount:          len(sheet.Rows),
		TemplateUsed:      used,
	}, nil
}

func defaultFields() []string {
	return append([]string(nil), DefaultDestinationFields...)
}
