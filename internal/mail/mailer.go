// Package mail delivers messages produced by the mail queue over SMTP.
package mail

import (
	"gopkg.in/gomail.v2"

	"github.com/adboards/adboards-api/internal/queue"
)

// Mailer sends MailRequestedEvent messages through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer builds a Mailer for the given relay. Credentials may be empty
// for relays that accept unauthenticated local delivery.
func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

// Send delivers one event. A new SMTP connection is dialed per message;
// recovery mail volume is far too low to justify connection pooling.
func (m *Mailer) Send(ev queue.MailRequestedEvent) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", ev.To)
	msg.SetHeader("Subject", ev.Subject)
	msg.SetBody("text/html", ev.HTML)
	return m.dialer.DialAndSend(msg)
}
