package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"padron/internal/padron"
)

const seedBatchSize = 500

type obraSocialEntry struct {
	codigo string
	nombre string
}

func newSeedObrasCmd() *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "seed-obras",
		Short: "Convert an obras sociales spreadsheet into a SQL seed file",
		Long: "Reads a workbook or CSV with a codigo column and a nombre column " +
			"(first sheet, header on the first row) and writes batched INSERTs for obras_sociales.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(inPath)
			if err != nil {
				return err
			}
			sheet, err := padron.ParseRoster(in)
			if err != nil {
				return err
			}
			entries, err := obraSocialEntries(sheet)
			if err != nil {
				return err
			}

			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer func() { _ = out.Close() }()

			if err := writeSeed(out, entries); err != nil {
				return err
			}
			log.Info().Int("entries", len(entries)).Str("out", outPath).Msg("seed generated")
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "Obras sociales spreadsheet (.xlsx or .csv)")
	cmd.Flags().StringVar(&outPath, "out", "db/seeds/obras_sociales.sql", "Output SQL file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// obraSocialEntries picks the codigo and nombre columns by normalized header
// and drops rows without a nombre and repeated codigos.
func obraSocialEntries(sheet *padron.Sheet) ([]obraSocialEntry, error) {
	codigoCol, nombreCol := "", ""
	for _, col := range sheet.Columns {
		switch padron.NormalizeColumnName(col) {
		case "codigo", "código", "cod", "sigla":
			if codigoCol == "" {
				codigoCol = col
			}
		case "nombre", "obra social", "descripcion", "descripción", "razon social":
			if nombreCol == "" {
				nombreCol = col
			}
		}
	}
	if nombreCol == "" {
		return nil, fmt.Errorf("no nombre column among %v", sheet.Columns)
	}

	seen := make(map[string]bool)
	var entries []obraSocialEntry
	for _, row := range sheet.Rows {
		nombre := strings.TrimSpace(row[nombreCol].String())
		if nombre == "" {
			continue
		}
		codigo := nombre
		if codigoCol != "" {
			if c := strings.TrimSpace(row[codigoCol].String()); c != "" {
				codigo = c
			}
		}
		key := strings.ToUpper(codigo)
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, obraSocialEntry{codigo: codigo, nombre: nombre})
	}
	return entries, nil
}

func writeSeed(out io.Writer, entries []obraSocialEntry) error {
	header := fmt.Sprintf("-- Obras sociales seed data generated by padronctl seed-obras.\n-- %d entries in batches of %d.\nBEGIN;\n\n",
		len(entries), seedBatchSize)
	if _, err := io.WriteString(out, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < len(entries); i += seedBatchSize {
		end := i + seedBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeSeedBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	if _, err := io.WriteString(out, "\nCOMMIT;\n"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}

func writeSeedBatch(out io.Writer, batch []obraSocialEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO obras_sociales (codigo, nombre) VALUES\n")
	for i, e := range batch {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  ('%s', '%s')", escapeSQL(e.codigo), escapeSQL(e.nombre))
	}
	b.WriteString("\nON CONFLICT (codigo) DO NOTHING;\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
