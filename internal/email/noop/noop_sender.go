package noop

import (
	"context"

	"github.com/rs/zerolog"

	"padron/internal/email"
	"padron/internal/port"
)

type noopSender struct {
	log zerolog.Logger
}

// NewNoopSender creates an EmailSender that logs summaries instead of sending them.
func NewNoopSender(log zerolog.Logger) port.EmailSender {
	return &noopSender{log: log.With().Str("component", "email.noop").Logger()}
}

func (s *noopSender) SendImportSummary(_ context.Context, toEmail string, summary port.ImportSummary) error {
	s.log.Info().
		Str("to", toEmail).
		Str("subject", email.Subject(summary)).
		Int("success", summary.SuccessCount).
		Int("errors", summary.ErrorCount).
		Msg("import summary not sent (noop provider)")
	return nil
}
