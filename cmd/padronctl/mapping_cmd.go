package main

import (
	"github.com/spf13/cobra"

	"padron/internal/padron"
)

type mappingOutput struct {
	File          string              `json:"file"`
	Rows          int                 `json:"rows"`
	TemplateUsed  bool                `json:"template_used"`
	SourceColumns []string            `json:"source_columns"`
	Mapping       padron.FieldMapping `json:"mapping"`
	Unmapped      []string            `json:"unmapped"`
}

func newMappingCmd() *cobra.Command {
	var flags rosterFlags

	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Print the automatic column mapping for a roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.discover()
			if err != nil {
				return err
			}
			mapping := padron.AutoMap(d.DestinationFields, d.SourceColumns)
			return writeJSON(newMappingOutput(flags.roster, d, mapping))
		},
	}
	flags.register(cmd)
	return cmd
}

func newMappingOutput(file string, d *padron.Discovery, mapping padron.FieldMapping) mappingOutput {
	out := mappingOutput{
		File:          file,
		Rows:          d.RowCount,
		TemplateUsed:  d.TemplateUsed,
		SourceColumns: d.SourceColumns,
		Mapping:       mapping,
		Unmapped:      []string{},
	}
	for _, field := range d.DestinationFields {
		if _, ok := mapping.Column(field); !ok {
			out.Unmapped = append(out.Unmapped, field)
		}
	}
	return out
}
