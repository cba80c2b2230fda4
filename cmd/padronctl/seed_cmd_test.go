package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padron/internal/padron"
)

func TestObraSocialEntries(t *testing.T) {
	sheet, err := padron.ParseDelimited([]byte("Código;Obra Social\nOSDE;OSDE Binario\n;Particular\nosde;Duplicada\n;\nIOMA;Instituto O'Higgins\n"))
	require.NoError(t, err)

	entries, err := obraSocialEntries(sheet)

	require.NoError(t, err)
	assert.Equal(t, []obraSocialEntry{
		{codigo: "OSDE", nombre: "OSDE Binario"},
		{codigo: "Particular", nombre: "Particular"},
		{codigo: "IOMA", nombre: "Instituto O'Higgins"},
	}, entries)
}

func TestObraSocialEntries_NoNombreColumn(t *testing.T) {
	sheet, err := padron.ParseDelimited([]byte("Codigo,Plan\nOSDE,210\n"))
	require.NoError(t, err)

	_, err = obraSocialEntries(sheet)

	assert.Error(t, err)
}

func TestWriteSeed(t *testing.T) {
	var b strings.Builder

	err := writeSeed(&b, []obraSocialEntry{{codigo: "IOMA", nombre: "Instituto O'Higgins"}})

	require.NoError(t, err)
	out := b.String()
	assert.Contains(t, out, "BEGIN;")
	assert.Contains(t, out, "('IOMA', 'Instituto O''Higgins')")
	assert.Contains(t, out, "ON CONFLICT (codigo) DO NOTHING;")
	assert.True(t, strings.HasSuffix(out, "COMMIT;\n"))
}
