package models

import (
	"time"
)

// ConversationStatus represents the lifecycle state of a conversation
type ConversationStatus string

const (
	ConversationOpen   ConversationStatus = "open"
	ConversationClosed ConversationStatus = "closed"
)

// ConversationState is the one row of lifecycle state owned by each
// conversation. A conversation is identified by its activity (listing) and
// the unordered participant pair, stored canonically as (UserLow, UserHigh).
// Rows are created implicitly on the first message of a pair and only ever
// transition open -> closed; there is no reopening.
type ConversationState struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	ActivityID uint               `gorm:"uniqueIndex:idx_conversation_identity;not null" json:"activityId"`
	UserLow    uint               `gorm:"uniqueIndex:idx_conversation_identity;not null" json:"userLow"`
	UserHigh   uint               `gorm:"uniqueIndex:idx_conversation_identity;not null" json:"userHigh"`
	Status     ConversationStatus `gorm:"size:10;default:'open'" json:"status"`
	ClosedAt   *time.Time         `json:"closedAt,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// CanonicalPair orders two participant IDs as (low, high). Every piece of
// code that needs a direction-independent conversation identity goes
// through here; a pair must never appear under both orderings.
func CanonicalPair(a, b uint) (low, high uint) {
	if a <= b {
		return a, b
	}
	return b, a
}

// Other returns the participant that is not the given user.
func (s *ConversationState) Other(userID uint) uint {
	if s.UserLow == userID {
		return s.UserHigh
	}
	return s.UserLow
}

// Involves reports whether the given user is a participant.
func (s *ConversationState) Involves(userID uint) bool {
	return s.UserLow == userID || s.UserHigh == userID
}
