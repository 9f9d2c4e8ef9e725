// Package queue defines message payloads exchanged over the message broker.
package queue

// MailQueueName is the durable queue carrying outgoing email requests.
const MailQueueName = "mail.outgoing"

// MailRequestedEvent is published when the API needs an email delivered —
// today that is only password recovery mail. The consumer renders and
// sends it over SMTP, keeping slow mail delivery out of the request path.
type MailRequestedEvent struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTML        string `json:"html"`
	RequestedAt string `json:"requested_at"`
}
