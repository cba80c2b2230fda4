package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"padron/internal/email/noop"
	"padron/internal/email/ses"
	"padron/internal/metrics"
	"padron/internal/padron"
	"padron/internal/port"
	"padron/internal/repository/memory"
	"padron/internal/repository/postgres"
	"padron/internal/service"
)

type importOutput struct {
	File    string               `json:"file"`
	Mode    string               `json:"mode"`
	Summary padron.Summary       `json:"summary"`
	Outcome padron.ImportOutcome `json:"outcome"`
	Elapsed string               `json:"elapsed"`
}

func newImportCmd() *cobra.Command {
	var (
		flags        rosterFlags
		obraSocialID int64
		mode         string
		notify       string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run the full pipeline against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := padron.ParseMode(mode); err != nil {
				return err
			}
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := postgres.NewDB(&cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			var sender port.EmailSender
			if notify != "" {
				if cfg.Email.Provider == "ses" {
					sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
					if err != nil {
						return err
					}
				} else {
					sender = noop.NewNoopSender(log)
				}
			}

			// The CLI reads rosters from disk, so nothing is archived.
			svc := service.NewImportService(
				memory.NewSessionStore(0),
				postgres.NewPatientRepo(db),
				postgres.NewObraSocialRepo(db),
				postgres.NewImportBatchRepo(db),
				nil,
				sender,
				metrics.NewImport(),
				&cfg.S3,
				&cfg.Import,
				log,
			)

			roster, err := readInput(flags.roster)
			if err != nil {
				return err
			}
			upload := service.UploadInput{
				Roster:     service.FileInput{Name: roster.Name, Data: roster.Data},
				UploadedBy: "padronctl",
			}
			if flags.template != "" {
				t, err := readInput(flags.template)
				if err != nil {
					return err
				}
				upload.Template = &service.FileInput{Name: t.Name, Data: t.Data}
			}

			start := time.Now()
			ctx := cmd.Context()
			sess, err := svc.Upload(ctx, upload)
			if err != nil {
				return err
			}
			sess, err = svc.Convert(ctx, sess.ID, service.ConvertInput{ObraSocialID: obraSocialID})
			if err != nil {
				return err
			}
			outcome, err := svc.Commit(ctx, sess.ID, service.CommitInput{Mode: mode, NotifyEmail: notify, CreatedBy: "padronctl"})
			if err != nil {
				return fmt.Errorf("commit: %w", err)
			}

			return writeJSON(importOutput{
				File:    roster.Name,
				Mode:    mode,
				Summary: sess.Result.Summary(),
				Outcome: *outcome,
				Elapsed: time.Since(start).Round(time.Millisecond).String(),
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().Int64Var(&obraSocialID, "obra-social", 0, "Obra social ID (required)")
	cmd.Flags().StringVar(&mode, "mode", string(padron.ModeNewOnly), "Import mode: new_only, update_existing or all")
	cmd.Flags().StringVar(&notify, "notify", "", "Email address that receives the import summary")
	_ = cmd.MarkFlagRequired("obra-social")
	return cmd
}
