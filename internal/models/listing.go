package models

import (
	"time"
)

// Listing represents a product listing that conversations attach to.
// The wider catalog (pricing, stock, media) lives in the host platform;
// this table carries only what the chat needs to resolve.
type Listing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	SellerID    uint      `gorm:"index" json:"sellerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Seller User `gorm:"foreignKey:SellerID" json:"-"`
}
