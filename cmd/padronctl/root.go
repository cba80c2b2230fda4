package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"padron/internal/config"
	"padron/internal/logger"
	"padron/internal/padron"
)

type rosterFlags struct {
	roster   string
	template string
}

func (f *rosterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.roster, "roster", "", "Roster file (.xlsx, .xlsm, .csv, .txt)")
	cmd.Flags().StringVar(&f.template, "template", "", "Optional template whose header row lists the destination fields")
	_ = cmd.MarkFlagRequired("roster")
}

// discover reads the roster and the optional template from disk.
func (f *rosterFlags) discover() (*padron.Discovery, error) {
	roster, err := readInput(f.roster)
	if err != nil {
		return nil, err
	}
	var template *padron.Input
	if f.template != "" {
		t, err := readInput(f.template)
		if err != nil {
			return nil, err
		}
		template = &t
	}
	return padron.Discover(roster, template)
}

func readInput(path string) (padron.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return padron.Input{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return padron.Input{Name: filepath.Base(path), Data: data}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "padronctl",
		Short:        "Roster import tools",
		SilenceUsage: true,
	}
	cmd.AddCommand(newMappingCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newSeedObrasCmd())
	return cmd
}

// loadConfig loads configuration and builds the logger used by commands that
// touch the database.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading config: %w", err)
	}
	return cfg, logger.New(cfg.Log), nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
