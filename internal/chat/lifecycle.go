package chat

import (
	"time"

	"gorm.io/gorm"

	"listing-chat-server/internal/models"
)

// Lifecycle tracks and enforces the open/closed state of conversations.
type Lifecycle struct {
	DB *gorm.DB
}

// NewLifecycle creates a new Lifecycle.
func NewLifecycle(db *gorm.DB) *Lifecycle {
	return &Lifecycle{DB: db}
}

// activityClosed reports whether any conversation under the activity is
// closed. Closing is activity-scoped: one closed pair blocks the whole
// listing, including pairs that have not messaged yet.
func activityClosed(db *gorm.DB, activityID uint) (bool, error) {
	var count int64
	err := db.Model(&models.ConversationState{}).
		Where("activity_id = ? AND status = ?", activityID, models.ConversationClosed).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsClosed reports whether the activity's conversations are closed.
func (l *Lifecycle) IsClosed(activityID uint) (bool, error) {
	return activityClosed(l.DB, activityID)
}

// ManualClose closes every conversation under the activity. The requester
// must have exchanged at least one message in the activity or hold admin
// privilege. Closing an already-closed activity is a no-op.
func (l *Lifecycle) ManualClose(activityID, requesterID uint, isAdmin bool) error {
	if activityID == 0 {
		return ErrValidation
	}

	if !isAdmin {
		var participating int64
		err := l.DB.Model(&models.ChatMessage{}).
			Where("activity_id = ? AND (sender_id = ? OR recipient_id = ?)",
				activityID, requesterID, requesterID).
			Count(&participating).Error
		if err != nil {
			return err
		}
		if participating == 0 {
			return ErrPermission
		}
	}

	now := time.Now()
	return l.DB.Model(&models.ConversationState{}).
		Where("activity_id = ? AND status = ?", activityID, models.ConversationOpen).
		Updates(map[string]interface{}{
			"status":    models.ConversationClosed,
			"closed_at": now,
		}).Error
}

// AutoCloseSweep closes every open conversation under activities whose
// most recent message is older than the inactivity window. Staleness is
// judged per activity, not per pair: close is activity-scoped, so one
// fresh message under a listing keeps every conversation on that listing
// open. It returns how many conversations it closed. The sweep is
// idempotent: conversations it closed are no longer open on the next run,
// so running twice closes nothing extra and never errors. The "still
// open" guard in the update means an overlapping run converges on the
// same state without locking.
func (l *Lifecycle) AutoCloseSweep(inactivity time.Duration) (int64, error) {
	cutoff := time.Now().Add(-inactivity)

	var open []models.ConversationState
	if err := l.DB.Where("status = ?", models.ConversationOpen).Find(&open).Error; err != nil {
		return 0, err
	}

	activities := make(map[uint]bool, len(open))
	for _, state := range open {
		activities[state.ActivityID] = true
	}

	var closed int64
	for activityID := range activities {
		var last models.ChatMessage
		err := l.DB.
			Where("activity_id = ?", activityID).
			Order("created_at DESC, id DESC").
			First(&last).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return closed, err
		}
		if !last.CreatedAt.Before(cutoff) {
			continue
		}

		now := time.Now()
		result := l.DB.Model(&models.ConversationState{}).
			Where("activity_id = ? AND status = ?", activityID, models.ConversationOpen).
			Updates(map[string]interface{}{
				"status":    models.ConversationClosed,
				"closed_at": now,
			})
		if result.Error != nil {
			return closed, result.Error
		}
		closed += result.RowsAffected
	}

	return closed, nil
}
