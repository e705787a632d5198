package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	data []byte
	err  error
}

func (s stubSource) DocumentPDF(context.Context, int64) ([]byte, error) {
	return s.data, s.err
}

type recordingMailer struct {
	to, subject string
	attachment  []byte
	err         error
}

func (m *recordingMailer) Send(_ context.Context, to, subject string, attachment []byte) error {
	m.to, m.subject, m.attachment = to, subject, attachment
	return m.err
}

func TestDocumentDeliverHandler(t *testing.T) {
	task, err := NewDocumentDeliverTask(DocumentDeliverPayload{
		DocumentID: 42,
		Number:     "RE-0042",
		Recipient:  "kunde@example.de",
	})
	require.NoError(t, err)
	assert.Equal(t, TaskDocumentDeliver, task.Type())

	mailer := &recordingMailer{}
	handler := NewDocumentDeliverHandler(stubSource{data: []byte("%PDF")}, mailer, nil)

	require.NoError(t, handler(context.Background(), task))
	assert.Equal(t, "kunde@example.de", mailer.to)
	assert.Equal(t, "Ihre Rechnung RE-0042", mailer.subject)
	assert.Equal(t, []byte("%PDF"), mailer.attachment)
}

func TestDocumentDeliverHandlerSkipsBadPayload(t *testing.T) {
	handler := NewDocumentDeliverHandler(stubSource{}, &recordingMailer{}, nil)
	err := handler(context.Background(), asynq.NewTask(TaskDocumentDeliver, []byte("{broken")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDocumentDeliverHandlerPropagatesSourceError(t *testing.T) {
	task, err := NewDocumentDeliverTask(DocumentDeliverPayload{DocumentID: 7, Number: "RE-0007", Recipient: "x@example.de"})
	require.NoError(t, err)

	boom := errors.New("asset gone")
	mailer := &recordingMailer{}
	handler := NewDocumentDeliverHandler(stubSource{err: boom}, mailer, nil)

	err = handler(context.Background(), task)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mailer.to, "nothing must be sent when the source fails")
}
