package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	From        string
	To          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers a single message. Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sesMailer struct {
	client *ses.Client
}

// NewSESMailer builds a mailer backed by Amazon SES using the default
// credential chain (env vars, instance profile).
func NewSESMailer(ctx context.Context) (Mailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &sesMailer{client: ses.NewFromConfig(cfg)}, nil
}

func (m *sesMailer) Send(ctx context.Context, msg Message) error {
	raw, err := buildRawMessage(msg)
	if err != nil {
		return err
	}
	_, err = m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage: &types.RawMessage{Data: raw.Bytes()},
	})
	return err
}

// buildRawMessage assembles a multipart/mixed MIME message: an
// alternative part holding the text and HTML bodies, followed by
// base64-encoded attachments.
func buildRawMessage(msg Message) (*bytes.Buffer, error) {
	var raw bytes.Buffer
	writer := multipart.NewWriter(&raw)

	headers := fmt.Sprintf("From: %s\r\n", msg.From)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", msg.Subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", writer.Boundary())
	headers += "\r\n"
	raw.WriteString(headers)

	altBuf := &bytes.Buffer{}
	altWriter := multipart.NewWriter(altBuf)

	altHeaders := textproto.MIMEHeader{}
	altHeaders.Set("Content-Type", "multipart/alternative; boundary="+altWriter.Boundary())
	altPart, err := writer.CreatePart(altHeaders)
	if err != nil {
		return nil, err
	}

	writeBody := func(contentType, body string) error {
		if body == "" {
			return nil
		}
		part, err := altWriter.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType + "; charset=UTF-8"},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return err
		}
		qp := quotedprintable.NewWriter(part)
		if _, err := qp.Write([]byte(body)); err != nil {
			return err
		}
		return qp.Close()
	}
	if err := writeBody("text/plain", msg.Text); err != nil {
		return nil, err
	}
	if err := writeBody("text/html", msg.HTML); err != nil {
		return nil, err
	}
	if err := altWriter.Close(); err != nil {
		return nil, err
	}
	if _, err := altPart.Write(altBuf.Bytes()); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", fmt.Sprintf("%s; name=%q", att.ContentType, att.Filename))
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
		h.Set("Content-Transfer-Encoding", "base64")

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, err
		}
		encoded := make([]byte, base64.StdEncoding.EncodedLen(len(att.Content)))
		base64.StdEncoding.Encode(encoded, att.Content)

		// SES requires encoded lines no longer than 76 characters.
		for i := 0; i < len(encoded); i += 76 {
			end := i + 76
			if end > len(encoded) {
				end = len(encoded)
			}
			if _, err := part.Write(encoded[i:end]); err != nil {
				return nil, err
			}
			if _, err := part.Write([]byte("\r\n")); err != nil {
				return nil, err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return &raw, nil
}
