package chat

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"listing-chat-server/internal/models"
)

// Notifier is told about every stored message so it can decide whether the
// recipient should be emailed. Implementations must never block the send
// path; the store invokes them on their own goroutine and ignores their
// outcome entirely.
type Notifier interface {
	Notify(recipientID, senderID, activityID uint, body string)
}

// Store owns the append-only chat message log.
type Store struct {
	DB       *gorm.DB
	Notifier Notifier
}

// NewStore creates a new Store. The notifier may be nil.
func NewStore(db *gorm.DB, notifier Notifier) *Store {
	return &Store{DB: db, Notifier: notifier}
}

// Append validates and persists a new message. The conversation row for
// the pair is upserted first (creation of a conversation is implicit in
// its first message), but a closed conversation rejects the write before
// anything touches the database.
func (s *Store) Append(activityID, senderID, recipientID uint, body string) (*models.ChatMessage, error) {
	body = SanitizeText(body)
	if activityID == 0 || senderID == 0 || recipientID == 0 || body == "" {
		return nil, ErrValidation
	}

	closed, err := activityClosed(s.DB, activityID)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, ErrConversationClosed
	}

	low, high := models.CanonicalPair(senderID, recipientID)
	state := models.ConversationState{
		ActivityID: activityID,
		UserLow:    low,
		UserHigh:   high,
		Status:     models.ConversationOpen,
	}
	// Idempotent upsert: concurrent first messages of the same pair both
	// succeed and leave exactly one conversation row.
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "activity_id"}, {Name: "user_low"}, {Name: "user_high"}},
		DoNothing: true,
	}).Create(&state).Error; err != nil {
		return nil, err
	}

	message := models.ChatMessage{
		ActivityID:  activityID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := s.DB.Create(&message).Error; err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		// Fire-and-forget: a failed notification must never fail a stored
		// message.
		go s.Notifier.Notify(recipientID, senderID, activityID, body)
	}

	return &message, nil
}

// ListBetween returns every message of the given activity exchanged between
// the two users, in both directions, oldest first. Messages sharing a
// timestamp are ordered by insertion ID.
func (s *Store) ListBetween(activityID, userA, userB uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.DB.
		Where("activity_id = ?", activityID).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags every unread message sent by otherUserID to readerID in
// the given activity as read. Calling it again affects zero rows.
func (s *Store) MarkRead(activityID, readerID, otherUserID uint) error {
	if activityID == 0 || readerID == 0 || otherUserID == 0 {
		return ErrValidation
	}
	return s.DB.Model(&models.ChatMessage{}).
		Where("activity_id = ? AND sender_id = ? AND recipient_id = ? AND is_read = ?",
			activityID, otherUserID, readerID, false).
		Update("is_read", true).Error
}

// UnreadCount returns how many messages from otherUserID to readerID in the
// given activity are still unread.
func (s *Store) UnreadCount(activityID, readerID, otherUserID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.ChatMessage{}).
		Where("activity_id = ? AND sender_id = ? AND recipient_id = ? AND is_read = ?",
			activityID, otherUserID, readerID, false).
		Count(&count).Error
	return count, err
}

// PurgeAll irreversibly deletes every message and every conversation row.
// Operational use only.
func (s *Store) PurgeAll() error {
	if err := s.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.ChatMessage{}).Error; err != nil {
		return err
	}
	return s.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.ConversationState{}).Error
}
