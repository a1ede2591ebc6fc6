package chat

import (
	"testing"
	"time"

	"listing-chat-server/internal/models"
)

func TestConversationsForDeduplicatesDirections(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db, "https://shop.example")
	seedUser(t, db, 5, "Ana", "Gomez")
	seedUser(t, db, 9, "Kevin", "Diaz")
	seedListing(t, db, 66, 9, "Vintage bike")

	base := time.Now().Add(-time.Hour)
	seedMessage(t, db, 66, 5, 9, "hola", base)
	seedMessage(t, db, 66, 9, 5, "buenas", base.Add(time.Minute))

	summaries, err := agg.ConversationsFor(5)
	if err != nil {
		t.Fatalf("ConversationsFor: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1 (messages in both directions are one conversation)", len(summaries))
	}

	s := summaries[0]
	if s.ActivityID != 66 || s.OtherUserID != 9 {
		t.Errorf("summary = %+v, want activity 66 other user 9", s)
	}
	if s.OtherUserName != "Kevin Diaz" {
		t.Errorf("OtherUserName = %q, want %q", s.OtherUserName, "Kevin Diaz")
	}
	if s.ListingTitle != "Vintage bike" {
		t.Errorf("ListingTitle = %q, want %q", s.ListingTitle, "Vintage bike")
	}
	if s.LastMessage != "buenas" {
		t.Errorf("LastMessage = %q, want %q", s.LastMessage, "buenas")
	}
	if s.UnreadCount != 1 {
		t.Errorf("UnreadCount = %d, want 1 (Kevin's reply is unread)", s.UnreadCount)
	}
}

func TestConversationsForOrdersByRecency(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db, "https://shop.example")
	seedUser(t, db, 5, "Ana", "Gomez")
	seedUser(t, db, 9, "Kevin", "Diaz")
	seedUser(t, db, 7, "Luz", "Mora")
	seedListing(t, db, 66, 9, "Vintage bike")
	seedListing(t, db, 67, 7, "Desk lamp")

	base := time.Now().Add(-time.Hour)
	seedMessage(t, db, 66, 5, 9, "about the bike", base)
	seedMessage(t, db, 67, 5, 7, "about the lamp", base.Add(time.Minute))

	summaries, err := agg.ConversationsFor(5)
	if err != nil {
		t.Fatalf("ConversationsFor: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].ActivityID != 67 || summaries[1].ActivityID != 66 {
		t.Errorf("order = [%d %d], want most recent first [67 66]",
			summaries[0].ActivityID, summaries[1].ActivityID)
	}
}

func TestConversationsForToleratesDeletedEntities(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db, "https://shop.example")
	seedUser(t, db, 5, "Ana", "Gomez")
	// User 9 and listing 66 never existed in this database.
	seedMessage(t, db, 66, 5, 9, "hola", time.Now())

	summaries, err := agg.ConversationsFor(5)
	if err != nil {
		t.Fatalf("ConversationsFor: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].OtherUserName != DeletedUserLabel {
		t.Errorf("OtherUserName = %q, want %q", summaries[0].OtherUserName, DeletedUserLabel)
	}
	if summaries[0].ListingTitle != DeletedListingLabel {
		t.Errorf("ListingTitle = %q, want %q", summaries[0].ListingTitle, DeletedListingLabel)
	}
}

func TestClosedFlagIsActivityWide(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db, "https://shop.example")
	seedUser(t, db, 5, "Ana", "Gomez")
	seedUser(t, db, 7, "Luz", "Mora")
	seedUser(t, db, 9, "Kevin", "Diaz")
	seedListing(t, db, 66, 9, "Vintage bike")

	base := time.Now().Add(-time.Hour)
	seedMessage(t, db, 66, 5, 9, "hola", base)
	seedMessage(t, db, 66, 7, 9, "me too", base.Add(time.Minute))

	// Close one pair row directly. Sends under the activity are now
	// rejected for everyone, so every view must report closed.
	err := db.Model(&models.ConversationState{}).
		Where("activity_id = ? AND user_low = ? AND user_high = ?", 66, 5, 9).
		Update("status", models.ConversationClosed).Error
	if err != nil {
		t.Fatalf("close pair row: %v", err)
	}

	summaries, err := agg.ConversationsFor(7)
	if err != nil {
		t.Fatalf("ConversationsFor: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if !summaries[0].Closed {
		t.Error("dashboard shows the conversation open while the activity rejects sends")
	}

	details, err := agg.AllConversations()
	if err != nil {
		t.Fatalf("AllConversations: %v", err)
	}
	for _, d := range details {
		if !d.Closed {
			t.Errorf("admin view shows pair (%d,%d) open under a closed activity", d.User1ID, d.User2ID)
		}
	}
}

func TestAllConversationsCanonicalizesPairs(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db, "https://shop.example")
	seedUser(t, db, 5, "Ana", "Gomez")
	seedUser(t, db, 9, "Kevin", "Diaz")
	seedListing(t, db, 66, 9, "Vintage bike")

	base := time.Now().Add(-time.Hour)
	seedMessage(t, db, 66, 9, 5, "first", base)
	seedMessage(t, db, 66, 5, 9, "second", base.Add(time.Minute))
	seedMessage(t, db, 66, 9, 5, "third", base.Add(2*time.Minute))

	details, err := agg.AllConversations()
	if err != nil {
		t.Fatalf("AllConversations: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d conversations, want exactly 1 (never both (5,9) and (9,5))", len(details))
	}

	d := details[0]
	if d.User1ID != 5 || d.User2ID != 9 {
		t.Errorf("pair = (%d,%d), want canonical (5,9)", d.User1ID, d.User2ID)
	}
	if d.TotalMessages != 3 {
		t.Errorf("TotalMessages = %d, want 3", d.TotalMessages)
	}
	if d.LastMessage != "third" || d.LastSender != "Kevin Diaz" {
		t.Errorf("last = %q by %q, want %q by %q", d.LastMessage, d.LastSender, "third", "Kevin Diaz")
	}
	if d.ListingTitle != "Vintage bike" {
		t.Errorf("ListingTitle = %q, want %q", d.ListingTitle, "Vintage bike")
	}
	if d.ListingLink != "https://shop.example/listings/66" {
		t.Errorf("ListingLink = %q, want %q", d.ListingLink, "https://shop.example/listings/66")
	}
}

func TestAllConversationsUsesPlaceholders(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db, "https://shop.example")
	user := seedUser(t, db, 5, "Ana", "Gomez")
	seedUser(t, db, 9, "Kevin", "Diaz")
	seedListing(t, db, 66, 9, "Vintage bike")
	seedMessage(t, db, 66, 5, 9, "hola", time.Now())

	// Delete one participant and the listing after the fact.
	if err := db.Delete(&user).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if err := db.Delete(&models.Listing{}, 66).Error; err != nil {
		t.Fatalf("delete listing: %v", err)
	}

	details, err := agg.AllConversations()
	if err != nil {
		t.Fatalf("AllConversations: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d conversations, want 1", len(details))
	}
	if details[0].User1Name != DeletedUserLabel {
		t.Errorf("User1Name = %q, want %q", details[0].User1Name, DeletedUserLabel)
	}
	if details[0].User2Name != "Kevin Diaz" {
		t.Errorf("User2Name = %q, want %q", details[0].User2Name, "Kevin Diaz")
	}
	if details[0].ListingTitle != DeletedListingLabel {
		t.Errorf("ListingTitle = %q, want %q", details[0].ListingTitle, DeletedListingLabel)
	}
	if details[0].ListingLink != "" {
		t.Errorf("ListingLink = %q, want empty for a deleted listing", details[0].ListingLink)
	}
}

func TestConversationMessagesAttributesSenders(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db, "https://shop.example")
	seedUser(t, db, 5, "Ana", "Gomez")
	seedUser(t, db, 9, "Kevin", "Diaz")

	base := time.Now().Add(-time.Hour)
	seedMessage(t, db, 66, 5, 9, "hola", base)
	seedMessage(t, db, 66, 9, 5, "buenas", base.Add(time.Minute))

	messages, err := agg.ConversationMessages(66, 9, 5)
	if err != nil {
		t.Fatalf("ConversationMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].SenderName != "Ana Gomez" || messages[1].SenderName != "Kevin Diaz" {
		t.Errorf("sender names = [%q %q], want [Ana Gomez, Kevin Diaz]",
			messages[0].SenderName, messages[1].SenderName)
	}
	if messages[0].Body != "hola" {
		t.Errorf("messages not in chronological order: first = %q", messages[0].Body)
	}
}
