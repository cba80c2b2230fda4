package port

import "context"

// ImportSummary is the content of the mail sent when an import finishes.
type ImportSummary struct {
	FileName     string
	ObraSocial   string
	Mode         string
	Attempted    int
	SuccessCount int
	Created      int
	Updated      int
	ErrorCount   int
	// FirstErrors holds a handful of "row N: message" lines.
	FirstErrors []string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendImportSummary(ctx context.Context, toEmail string, summary ImportSummary) error
}
