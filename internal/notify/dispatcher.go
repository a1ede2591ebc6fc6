// Package notify decides whether the recipient of a new chat message
// should be emailed about it, composes the email, and keeps a bounded log
// of what it did. It never surfaces an error to the send path.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"listing-chat-server/internal/models"
	"listing-chat-server/internal/presence"
)

// Directory resolves the user and listing details an email needs.
type Directory interface {
	UserInfo(id uint) (name, email string, ok bool)
	ListingTitle(id uint) (string, bool)
}

// DBDirectory is the gorm-backed Directory.
type DBDirectory struct {
	DB *gorm.DB
}

// Ensure interface compliance at compile time
var _ Directory = (*DBDirectory)(nil)

// UserInfo looks up a user's display name and address.
func (d *DBDirectory) UserInfo(id uint) (string, string, bool) {
	var user models.User
	if err := d.DB.First(&user, id).Error; err != nil {
		return "", "", false
	}
	return user.DisplayName(), user.Email, true
}

// ListingTitle looks up a listing's title.
func (d *DBDirectory) ListingTitle(id uint) (string, bool) {
	var listing models.Listing
	if err := d.DB.First(&listing, id).Error; err != nil {
		return "", false
	}
	return listing.Title, true
}

// Options tunes a Dispatcher.
type Options struct {
	// PresenceWindow suppresses the email when the recipient was seen
	// this recently.
	PresenceWindow time.Duration
	// PreviewLength caps how much of the message body the email quotes.
	PreviewLength int
	// LogSize is the dispatch log capacity.
	LogSize int
	// AppURL is the base URL used for the reply deep link.
	AppURL string
	// SiteName appears in the subject and signature.
	SiteName string
}

// Dispatcher implements the chat store's Notifier contract.
type Dispatcher struct {
	presence presence.Store
	mailer   Mailer
	dir      Directory
	log      *RingLog
	opts     Options

	// now is the clock; tests override it.
	now func() time.Time
}

// NewDispatcher wires a dispatcher. A nil mailer falls back to LogMailer.
func NewDispatcher(p presence.Store, m Mailer, dir Directory, opts Options) *Dispatcher {
	if m == nil {
		m = LogMailer{}
	}
	if opts.PreviewLength < 1 {
		opts.PreviewLength = 100
	}
	return &Dispatcher{
		presence: p,
		mailer:   m,
		dir:      dir,
		log:      NewRingLog(opts.LogSize),
		opts:     opts,
		now:      time.Now,
	}
}

// Log exposes the dispatch log for the admin endpoint.
func (d *Dispatcher) Log() *RingLog {
	return d.log
}

// Notify evaluates the presence heuristic and hands a composed email to
// the mailer. Every path records its outcome in the ring log; no path
// returns or panics into the caller.
func (d *Dispatcher) Notify(recipientID, senderID, activityID uint, body string) {
	now := d.now()
	record := Record{
		RecipientID: recipientID,
		SenderID:    senderID,
		ActivityID:  activityID,
		At:          now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lastSeen, seen, err := d.presence.LastSeen(ctx, recipientID)
	if err != nil {
		// Treat an unreadable presence record as "offline" and keep
		// going; losing an email is worse than sending a redundant one.
		log.Printf("notify: last-seen lookup for user %d: %v", recipientID, err)
	}
	if err == nil && seen && now.Sub(lastSeen) < d.opts.PresenceWindow {
		record.Outcome = OutcomeSuppressed
		record.Detail = fmt.Sprintf("recipient active %s ago", now.Sub(lastSeen).Round(time.Second))
		d.log.Append(record)
		return
	}

	recipientName, recipientEmail, ok := d.dir.UserInfo(recipientID)
	if !ok {
		record.Outcome = OutcomeSkipped
		record.Detail = "recipient no longer exists"
		d.log.Append(record)
		return
	}
	senderName, _, ok := d.dir.UserInfo(senderID)
	if !ok {
		record.Outcome = OutcomeSkipped
		record.Detail = "sender no longer exists"
		d.log.Append(record)
		return
	}
	listingTitle, ok := d.dir.ListingTitle(activityID)
	if !ok {
		record.Outcome = OutcomeSkipped
		record.Detail = "listing no longer exists"
		d.log.Append(record)
		return
	}

	preview := truncate(body, d.opts.PreviewLength)
	subject := fmt.Sprintf("New message on %s", d.opts.SiteName)
	mailBody := fmt.Sprintf(
		"Hi %s,\n\n%s sent you a message about %q:\n\n%q\n\nReply here: %s/listings/%d\n\nRegards,\n%s\n",
		recipientName, senderName, listingTitle, preview,
		d.opts.AppURL, activityID, d.opts.SiteName)

	record.To = recipientEmail
	record.Subject = subject
	record.Preview = preview

	if err := d.mailer.Send(recipientEmail, subject, mailBody); err != nil {
		record.Outcome = OutcomeFailed
		record.Detail = err.Error()
		d.log.Append(record)
		log.Printf("notify: send to user %d: %v", recipientID, err)
		return
	}

	record.Outcome = OutcomeSent
	d.log.Append(record)
}

// truncate cuts a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
