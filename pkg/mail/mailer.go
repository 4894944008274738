package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/wishlane/wishlane-backend/pkg/config"
	"github.com/wishlane/wishlane-backend/pkg/errors"
)

// Sender delivers account emails. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendConfirmation(ctx context.Context, to, username, token string) error
}

// SMTPSender sends mail through the configured SMTP relay.
type SMTPSender struct {
	cfg     config.MailConfig
	baseURL string
}

// NewSMTPSender returns a Sender backed by go-mail. baseURL is the public
// address the confirmation link points at, without a trailing slash.
func NewSMTPSender(cfg config.MailConfig, baseURL string) (*SMTPSender, error) {
	if !cfg.Enabled() {
		return nil, errors.New(errors.CodeDependency, "mail: smtp host and from address are required")
	}
	return &SMTPSender{cfg: cfg, baseURL: baseURL}, nil
}

func (s *SMTPSender) SendConfirmation(ctx context.Context, to, username, token string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "mail: invalid from address")
	}
	if err := msg.To(to); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "mail: invalid recipient")
	}
	msg.Subject("Confirm your account")
	msg.SetBodyString(gomail.TypeTextHTML, confirmationBody(s.baseURL, username, token))

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "mail: client setup failed")
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "mail: send failed")
	}
	return nil
}

func confirmationBody(baseURL, username, token string) string {
	link := fmt.Sprintf("%s/api/v1/auth/confirm/%s", baseURL, token)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<div style="max-width: 600px; margin: auto;">
		<h2>Welcome, %s</h2>
		<p>To confirm your account, follow this link:</p>
		<p><a href="%s">%s</a></p>
		<p>If you did not register, you can ignore this message.</p>
	</div>
</body>
</html>`, username, link, link)
}

// NoopSender is used when SMTP is not configured, for local development.
type NoopSender struct{}

func (NoopSender) SendConfirmation(ctx context.Context, to, username, token string) error {
	return nil
}
