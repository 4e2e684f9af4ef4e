// Package mail delivers outbound email.
package mail

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/mail"
	"net/url"
	"os"

	"github.com/dajohi/goemail"
	"github.com/filehost/filehost/internal/config"
	"github.com/filehost/filehost/pkg/logger"
)

// Mailer sends a plain-text message to a list of recipients.
type Mailer interface {
	SendTo(subject, body string, recipients []string) error
}

// SMTPMailer sends through an SMTPS server from a fixed sender address.
type SMTPMailer struct {
	smtp        *goemail.SMTP
	mailName    string
	mailAddress string
}

func (m *SMTPMailer) SendTo(subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}

	msg := goemail.NewMessage(m.mailAddress, subject, body)
	msg.SetName(m.mailName)
	for _, v := range recipients {
		msg.AddTo(v)
	}

	return m.smtp.Send(msg)
}

// LogMailer stands in for SMTP when it is not configured; messages are only logged.
type LogMailer struct{}

func (LogMailer) SendTo(subject, body string, recipients []string) error {
	logger.Info("mail_not_sent_smtp_disabled", map[string]interface{}{
		"subject":    subject,
		"recipients": recipients,
		"body_bytes": len(body),
	})
	return nil
}

// New returns an SMTPMailer, or a LogMailer when host, user or password is empty.
func New(cfg config.SMTPConfig) (Mailer, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		logger.Info("mail_disabled", nil)
		return LogMailer{}, nil
	}

	u, err := url.Parse(fmt.Sprintf("smtps://%v:%v@%v", url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host))
	if err != nil {
		return nil, err
	}

	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("parsing MAIL_FROM: %w", err)
	}

	tlsConfig := &tls.Config{InsecureSkipVerify: cfg.SkipVerify}
	if !cfg.SkipVerify && cfg.CertPath != "" {
		cert, err := os.ReadFile(cfg.CertPath)
		if err != nil {
			return nil, err
		}
		certPool, err := x509.SystemCertPool()
		if err != nil {
			certPool = x509.NewCertPool()
		}
		certPool.AppendCertsFromPEM(cert)
		tlsConfig.RootCAs = certPool
	}

	smtp, err := goemail.NewSMTP(u.String(), tlsConfig)
	if err != nil {
		return nil, err
	}

	logger.Info("mail_enabled", map[string]interface{}{
		"host": cfg.Host,
		"from": from.String(),
	})

	return &SMTPMailer{
		smtp:        smtp,
		mailName:    from.Name,
		mailAddress: from.Address,
	}, nil
}
