package models

import (
	"time"
)

// ChatMessage is one entry in the append-only chat log. Rows are never
// updated after creation except for the IsRead flag, which the recipient
// flips via the mark-read operation. The auto-increment ID doubles as the
// ordering tiebreak for messages sharing a timestamp.
type ChatMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ActivityID  uint      `gorm:"index;not null" json:"activityId"`
	SenderID    uint      `gorm:"index;not null" json:"senderId"`
	RecipientID uint      `gorm:"index;not null" json:"recipientId"`
	Body        string    `gorm:"type:text;not null" json:"message"`
	IsRead      bool      `gorm:"default:false" json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}
