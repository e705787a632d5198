package jobs

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
)

// SMTPMailer delivers documents as mail attachments over plain SMTP.
type SMTPMailer struct {
	Host string
	Port int
	From string
}

// Send builds a multipart message with the PDF attached and submits it.
func (m SMTPMailer) Send(ctx context.Context, to, subject string, attachment []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	text, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(text, "Guten Tag,\r\n\r\nanbei erhalten Sie Ihr Dokument.\r\n\r\nMit freundlichen Grüßen\r\n")

	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {`attachment; filename="dokument.pdf"`},
	})
	if err != nil {
		return err
	}
	encoder := base64.NewEncoder(base64.StdEncoding, part)
	if _, err := encoder.Write(attachment); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	return smtp.SendMail(addr, nil, m.From, []string{to}, msg.Bytes())
}
