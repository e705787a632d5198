// Package jobs wires background tasks through Asynq. The only task so far
// dispatches a rendered invoice to the customer; the mail transport itself
// stays behind the Mailer port.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDocumentDeliver is the task type for sending a rendered document
	// to its recipient.
	TaskDocumentDeliver = "document:deliver"
)

// DocumentDeliverPayload identifies the document to deliver.
type DocumentDeliverPayload struct {
	DocumentID int64  `json:"document_id"`
	Number     string `json:"number"`
	Recipient  string `json:"recipient"`
}

// NewDocumentDeliverTask constructs an Asynq task.
func NewDocumentDeliverTask(payload DocumentDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDocumentDeliver, data), nil
}

// PDFSource resolves the stored page stream of a rendered document.
type PDFSource interface {
	DocumentPDF(ctx context.Context, id int64) ([]byte, error)
}

// Mailer sends a document to a recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject string, attachment []byte) error
}

// LogMailer is the Mailer used when no SMTP host is configured.
type LogMailer struct {
	Logger *slog.Logger
}

// Send logs the delivery instead of performing it.
func (m LogMailer) Send(_ context.Context, to, subject string, attachment []byte) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("would deliver document",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("bytes", len(attachment)))
	return nil
}

// NewDocumentDeliverHandler builds the Asynq handler for document delivery.
func NewDocumentDeliverHandler(source PDFSource, mailer Mailer, logger *slog.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload DocumentDeliverPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		data, err := source.DocumentPDF(ctx, payload.DocumentID)
		if err != nil {
			return fmt.Errorf("resolve document %d: %w", payload.DocumentID, err)
		}
		subject := "Ihre Rechnung " + payload.Number
		if err := mailer.Send(ctx, payload.Recipient, subject, data); err != nil {
			return fmt.Errorf("deliver document %d: %w", payload.DocumentID, err)
		}
		logger.Info("document delivered",
			slog.Int64("document", payload.DocumentID),
			slog.String("to", payload.Recipient))
		return nil
	}
}
