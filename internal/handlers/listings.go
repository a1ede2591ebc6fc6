package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"listing-chat-server/internal/middleware"
	"listing-chat-server/internal/models"
	"listing-chat-server/internal/utils"
)

// ListingHandler handles the minimal listing surface the chat needs: the
// full catalog lives in the host platform.
type ListingHandler struct {
	DB *gorm.DB
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(db *gorm.DB) *ListingHandler {
	return &ListingHandler{DB: db}
}

// CreateListingRequest represents the request body for creating a listing.
type CreateListingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateListing creates a listing owned by the current user.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	sellerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	listing := models.Listing{
		Title:       req.Title,
		Description: req.Description,
		SellerID:    sellerID,
	}
	if err := h.DB.Create(&listing).Error; err != nil {
		utils.InternalServerError(c, "Failed to create listing: "+err.Error())
		return
	}

	utils.Created(c, "Listing created successfully", listing)
}

// GetListings returns all listings.
func (h *ListingHandler) GetListings(c *gin.Context) {
	var listings []models.Listing
	if err := h.DB.Order("id DESC").Find(&listings).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch listings: "+err.Error())
		return
	}
	utils.Success(c, "Listings fetched successfully", listings)
}

// GetListingByID returns one listing.
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	var listing models.Listing
	if err := h.DB.First(&listing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Listing not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Listing fetched successfully", listing)
}
