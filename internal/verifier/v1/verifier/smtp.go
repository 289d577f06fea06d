// Package verifier implements the email classification engine.

package verifier

import (
	"context"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"email-verifier-service/internal/constants"
	verifierErrors "email-verifier-service/internal/verifier/errors"

	"github.com/rs/zerolog"
)

// Prober checks whether a mailbox is deliverable via an SMTP handshake.
type Prober interface {
	Probe(ctx context.Context, mxHost, email string) string
}

type smtpProber struct {
	log        *zerolog.Logger
	port       int
	timeout    time.Duration
	heloDomain string
	mailFrom   string
}

func newSMTPProber(logger *zerolog.Logger, port int, timeout time.Duration, heloDomain, mailFrom string) *smtpProber {
	return &smtpProber{
		log:        logger,
		port:       port,
		timeout:    timeout,
		heloDomain: heloDomain,
		mailFrom:   mailFrom,
	}
}

// Probe runs EHLO, MAIL FROM and RCPT TO against the MX host and maps the
// RCPT reply onto an active status. Any transport failure yields unknown.
func (p *smtpProber) Probe(ctx context.Context, mxHost, email string) string {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(mxHost, strconv.Itoa(p.port)))
	if err != nil {
		p.log.Debug().Err(err).Str("mxHost", mxHost).Msg(verifierErrors.SMTPConnectionError)
		return constants.ActiveStatusUnknown
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(p.timeout))

	client, err := smtp.NewClient(conn, mxHost)
	if err != nil {
		return constants.ActiveStatusUnknown
	}
	defer client.Close()

	if err := client.Hello(p.heloDomain); err != nil {
		return constants.ActiveStatusUnknown
	}
	if err := client.Mail(p.mailFrom); err != nil {
		return constants.ActiveStatusUnknown
	}
	rcptErr := client.Rcpt(email)
	_ = client.Quit()

	return classifyRcpt(rcptErr)
}

// classifyRcpt maps an RCPT TO outcome onto an active status, 250 meaning a
// deliverable mailbox and 550/551 a rejected one.
func classifyRcpt(err error) string {
	if err == nil {
		return constants.ActiveStatusActive
	}
	if protoErr, ok := err.(*textproto.Error); ok {
		if protoErr.Code == 550 || protoErr.Code == 551 {
			return constants.ActiveStatusInactive
		}
	}
	return constants.ActiveStatusUnknown
}
