package chat

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"listing-chat-server/internal/models"
)

// Placeholder labels substituted when a referenced user or listing has
// been deleted. Aggregation never fails on a dangling reference.
const (
	DeletedUserLabel    = "Deleted user"
	DeletedListingLabel = "Deleted listing"
)

// ConversationSummary is one entry of a user's conversation dashboard.
type ConversationSummary struct {
	ActivityID    uint   `json:"activityId"`
	OtherUserID   uint   `json:"otherUserId"`
	OtherUserName string `json:"otherUserName"`
	ListingTitle  string `json:"listingTitle"`
	LastMessage   string `json:"lastMessage"`
	UnreadCount   int64  `json:"unreadCount"`
	Closed        bool   `json:"closed"`
}

// ConversationDetail is one entry of the admin's system-wide view.
type ConversationDetail struct {
	ActivityID    uint      `json:"activityId"`
	User1ID       uint      `json:"user1Id"`
	User1Name     string    `json:"user1Name"`
	User2ID       uint      `json:"user2Id"`
	User2Name     string    `json:"user2Name"`
	ListingTitle  string    `json:"listingTitle"`
	ListingLink   string    `json:"listingLink"`
	LastMessage   string    `json:"lastMessage"`
	LastSender    string    `json:"lastSender"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	TotalMessages int64     `json:"totalMessages"`
	Closed        bool      `json:"closed"`
}

// AttributedMessage is a message joined with its sender's display name,
// used by the admin conversation view.
type AttributedMessage struct {
	models.ChatMessage
	SenderName string `json:"senderName"`
}

// Aggregator derives conversation views from the message log and the
// conversation state table. Conversations themselves are never stored.
// AppURL is the public base URL used to build listing deep links.
type Aggregator struct {
	DB     *gorm.DB
	AppURL string
}

// NewAggregator creates a new Aggregator.
func NewAggregator(db *gorm.DB, appURL string) *Aggregator {
	return &Aggregator{DB: db, AppURL: appURL}
}

// ConversationsFor returns one summary per conversation the user takes
// part in, most recent activity first. Because conversation identity is
// the canonical pair row, a pair can never show up twice no matter which
// direction its messages flow.
func (a *Aggregator) ConversationsFor(userID uint) ([]ConversationSummary, error) {
	var states []models.ConversationState
	err := a.DB.Where("user_low = ? OR user_high = ?", userID, userID).Find(&states).Error
	if err != nil {
		return nil, err
	}

	type entry struct {
		summary ConversationSummary
		lastID  uint
	}
	entries := make([]entry, 0, len(states))
	closedCache := map[uint]bool{}

	for _, state := range states {
		other := state.Other(userID)

		last, ok, err := a.lastMessage(state)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		var unread int64
		err = a.DB.Model(&models.ChatMessage{}).
			Where("activity_id = ? AND sender_id = ? AND recipient_id = ? AND is_read = ?",
				state.ActivityID, other, userID, false).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}

		closed, err := a.closedFor(closedCache, state.ActivityID)
		if err != nil {
			return nil, err
		}

		title, _ := a.listing(state.ActivityID)
		entries = append(entries, entry{
			summary: ConversationSummary{
				ActivityID:    state.ActivityID,
				OtherUserID:   other,
				OtherUserName: a.userName(other),
				ListingTitle:  title,
				LastMessage:   last.Body,
				UnreadCount:   unread,
				Closed:        closed,
			},
			lastID: last.ID,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].lastID > entries[j].lastID })

	summaries := make([]ConversationSummary, len(entries))
	for i, e := range entries {
		summaries[i] = e.summary
	}
	return summaries, nil
}

// AllConversations returns every distinct conversation in the system, most
// recent activity first. Deleted participants and listings are reported
// with placeholder labels rather than dropped.
func (a *Aggregator) AllConversations() ([]ConversationDetail, error) {
	var states []models.ConversationState
	if err := a.DB.Find(&states).Error; err != nil {
		return nil, err
	}

	type entry struct {
		detail ConversationDetail
		lastID uint
	}
	entries := make([]entry, 0, len(states))
	closedCache := map[uint]bool{}

	for _, state := range states {
		last, ok, err := a.lastMessage(state)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		var total int64
		err = a.DB.Model(&models.ChatMessage{}).
			Where("activity_id = ?", state.ActivityID).
			Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
				state.UserLow, state.UserHigh, state.UserHigh, state.UserLow).
			Count(&total).Error
		if err != nil {
			return nil, err
		}

		closed, err := a.closedFor(closedCache, state.ActivityID)
		if err != nil {
			return nil, err
		}

		title, link := a.listing(state.ActivityID)
		entries = append(entries, entry{
			detail: ConversationDetail{
				ActivityID:    state.ActivityID,
				User1ID:       state.UserLow,
				User1Name:     a.userName(state.UserLow),
				User2ID:       state.UserHigh,
				User2Name:     a.userName(state.UserHigh),
				ListingTitle:  title,
				ListingLink:   link,
				LastMessage:   last.Body,
				LastSender:    a.userName(last.SenderID),
				LastMessageAt: last.CreatedAt,
				TotalMessages: total,
				Closed:        closed,
			},
			lastID: last.ID,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].lastID > entries[j].lastID })

	details := make([]ConversationDetail, len(entries))
	for i, e := range entries {
		details[i] = e.detail
	}
	return details, nil
}

// ConversationMessages returns a single conversation's messages in order,
// each carrying its sender's display name, for the admin read-only view.
func (a *Aggregator) ConversationMessages(activityID, user1, user2 uint) ([]AttributedMessage, error) {
	if activityID == 0 || user1 == 0 || user2 == 0 {
		return nil, ErrValidation
	}

	var messages []models.ChatMessage
	err := a.DB.
		Where("activity_id = ?", activityID).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			user1, user2, user2, user1).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	names := map[uint]string{}
	attributed := make([]AttributedMessage, len(messages))
	for i, msg := range messages {
		name, cached := names[msg.SenderID]
		if !cached {
			name = a.userName(msg.SenderID)
			names[msg.SenderID] = name
		}
		attributed[i] = AttributedMessage{ChatMessage: msg, SenderName: name}
	}
	return attributed, nil
}

// lastMessage returns the most recent message of a conversation. A state
// row without messages (possible mid-append) is reported as absent.
func (a *Aggregator) lastMessage(state models.ConversationState) (models.ChatMessage, bool, error) {
	var last models.ChatMessage
	err := a.DB.
		Where("activity_id = ?", state.ActivityID).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			state.UserLow, state.UserHigh, state.UserHigh, state.UserLow).
		Order("created_at DESC, id DESC").
		First(&last).Error
	if err == gorm.ErrRecordNotFound {
		return models.ChatMessage{}, false, nil
	}
	if err != nil {
		return models.ChatMessage{}, false, err
	}
	return last, true, nil
}

// closedFor reports the activity-wide closed flag, cached per aggregation
// pass. Scope must match what the fetch path enforces: a dashboard entry
// showing open while sends are rejected would mislead the client.
func (a *Aggregator) closedFor(cache map[uint]bool, activityID uint) (bool, error) {
	if closed, ok := cache[activityID]; ok {
		return closed, nil
	}
	closed, err := activityClosed(a.DB, activityID)
	if err != nil {
		return false, err
	}
	cache[activityID] = closed
	return closed, nil
}

func (a *Aggregator) userName(id uint) string {
	var user models.User
	if err := a.DB.First(&user, id).Error; err != nil {
		return DeletedUserLabel
	}
	return user.DisplayName()
}

// listing resolves an activity's listing into a display title and a deep
// link. A deleted listing keeps its placeholder label and no link.
func (a *Aggregator) listing(id uint) (title, link string) {
	var listing models.Listing
	if err := a.DB.First(&listing, id).Error; err != nil {
		return DeletedListingLabel, ""
	}
	return listing.Title, fmt.Sprintf("%s/listings/%d", a.AppURL, listing.ID)
}
