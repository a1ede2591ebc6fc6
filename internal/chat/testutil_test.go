package chat

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"listing-chat-server/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Listing{},
		&models.ChatMessage{},
		&models.ConversationState{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint, first, last string) models.User {
	t.Helper()
	user := models.User{
		ID:        id,
		Email:     first + "@example.com",
		FirstName: first,
		LastName:  last,
		Role:      models.RoleBuyer,
	}
	if err := user.SetPassword("test-password"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
	return user
}

func seedListing(t *testing.T, db *gorm.DB, id, sellerID uint, title string) models.Listing {
	t.Helper()
	listing := models.Listing{ID: id, Title: title, SellerID: sellerID}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("seed listing %d: %v", id, err)
	}
	return listing
}

// seedMessage inserts a message row directly, bypassing Append, so tests
// can control timestamps.
func seedMessage(t *testing.T, db *gorm.DB, activityID, senderID, recipientID uint, body string, at time.Time) models.ChatMessage {
	t.Helper()
	low, high := models.CanonicalPair(senderID, recipientID)
	state := models.ConversationState{ActivityID: activityID, UserLow: low, UserHigh: high, Status: models.ConversationOpen}
	db.Where("activity_id = ? AND user_low = ? AND user_high = ?", activityID, low, high).FirstOrCreate(&state)

	message := models.ChatMessage{
		ActivityID:  activityID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   at,
	}
	if err := db.Create(&message).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return message
}

func messageCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.ChatMessage{}).Count(&count).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	return count
}
