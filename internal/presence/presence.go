// Package presence tracks when each user was last active. Clients touch
// their own record on page load and every couple of minutes; the
// notification dispatcher reads it to avoid emailing users who are
// sitting in front of the chat anyway.
package presence

import (
	"context"
	"time"
)

// Store is the last-seen record store.
type Store interface {
	// Touch records that the user is active right now.
	Touch(ctx context.Context, userID uint) error
	// LastSeen returns the user's last activity time. The boolean is
	// false when the user has never been seen.
	LastSeen(ctx context.Context, userID uint) (time.Time, bool, error)
}
