package sink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"
)

const (
	EmailSubject = "Summary Report"

	smtpsPort = 465
)

type EmailConfig struct {
	Recipient  string
	Sender     string
	SMTPServer string
	SMTPPort   int
	// Username defaults to Sender.
	Username string
	Password string
	Timeout  time.Duration
	// TLSConfig replaces the default TLS settings, e.g. to trust a private CA.
	// ServerName defaults to SMTPServer.
	TLSConfig *tls.Config
}

// EmailSink sends the summary as a plain text message over an
// authenticated, TLS-protected SMTP session.
type EmailSink struct {
	config EmailConfig
	log    *slog.Logger
}

func NewEmailSink(config EmailConfig, log *slog.Logger) (*EmailSink, error) {
	var errs []error
	if config.Recipient == "" {
		errs = append(errs, errors.New("email recipient is required"))
	}
	if config.Sender == "" {
		errs = append(errs, errors.New("email sender is required"))
	}
	if config.SMTPServer == "" {
		errs = append(errs, errors.New("smtp server is required"))
	}
	if config.SMTPPort < 1 || config.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("smtp port %d is out of range", config.SMTPPort))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if config.Username == "" {
		config.Username = config.Sender
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &EmailSink{config: config, log: log}, nil
}

func (s *EmailSink) destination() string {
	return "smtp://" + net.JoinHostPort(s.config.SMTPServer, strconv.Itoa(s.config.SMTPPort))
}

func (s *EmailSink) Deliver(ctx context.Context, summary string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.config.Sender); err != nil {
		return &DeliveryError{Destination: s.destination(), Err: fmt.Errorf("invalid sender: %w", err)}
	}
	if err := msg.To(s.config.Recipient); err != nil {
		return &DeliveryError{Destination: s.destination(), Err: fmt.Errorf("invalid recipient: %w", err)}
	}
	msg.Subject(EmailSubject)
	msg.SetBodyString(mail.TypeTextPlain, summary)

	opts := []mail.Option{
		mail.WithPort(s.config.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.Username),
		mail.WithPassword(s.config.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(s.config.Timeout),
	}
	if s.config.TLSConfig != nil {
		tlsConfig := s.config.TLSConfig.Clone()
		if tlsConfig.ServerName == "" {
			tlsConfig.ServerName = s.config.SMTPServer
		}
		opts = append(opts, mail.WithTLSConfig(tlsConfig))
	}
	if s.config.SMTPPort == smtpsPort {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(s.config.SMTPServer, opts...)
	if err != nil {
		return &DeliveryError{Destination: s.destination(), Err: err}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &DeliveryError{Destination: s.destination(), Err: err}
	}

	s.log.Info("summary emailed",
		"recipient", s.config.Recipient,
		"server", s.destination())
	return nil
}
