package notify

import (
	"log"
)

// Mailer hands a composed email to the platform's delivery subsystem.
// Delivery itself (SMTP credentials, retries, bounces) is not this
// service's job.
type Mailer interface {
	Send(to, subject, body string) error
}

// LogMailer writes the email to the process log instead of delivering it.
// It is the default when no delivery hook is wired, and keeps development
// environments from mailing anyone.
type LogMailer struct{}

// Ensure interface compliance at compile time
var _ Mailer = (*LogMailer)(nil)

// Send logs the composed email.
func (LogMailer) Send(to, subject, body string) error {
	log.Printf("mail to=%s subject=%q\n%s", to, subject, body)
	return nil
}
