package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"padron/internal/csvexport"
	"padron/internal/padron"
)

type convertOutput struct {
	mappingOutput
	Records int    `json:"records"`
	Output  string `json:"output"`
}

func newConvertCmd() *cobra.Command {
	var (
		flags        rosterFlags
		obraSocialID int64
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Normalize a roster into the CSV export without touching the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.discover()
			if err != nil {
				return err
			}
			mapping := padron.AutoMap(d.DestinationFields, d.SourceColumns)
			records := padron.Normalize(d.SourceRows, mapping, padron.NormalizeOptions{ObraSocialID: obraSocialID})

			if outPath == "" {
				outPath = csvexport.BuildFilename(flags.roster, time.Now())
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			if err := csvexport.ExportRoster(f, d.DestinationFields, records); err != nil {
				_ = f.Close()
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", outPath, err)
			}

			return writeJSON(convertOutput{
				mappingOutput: newMappingOutput(flags.roster, d, mapping),
				Records:       len(records),
				Output:        outPath,
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().Int64Var(&obraSocialID, "obra-social", 0, "Obra social ID stamped on every record")
	cmd.Flags().StringVar(&outPath, "out", "", "Output CSV path (default {roster}_normalizado_{date}.csv)")
	return cmd
}
