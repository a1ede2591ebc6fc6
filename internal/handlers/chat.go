package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"listing-chat-server/internal/chat"
	"listing-chat-server/internal/middleware"
	"listing-chat-server/internal/models"
	"listing-chat-server/internal/presence"
	"listing-chat-server/internal/utils"
)

// ChatHandler handles the buyer/seller messaging endpoints.
type ChatHandler struct {
	Store     *chat.Store
	Agg       *chat.Aggregator
	Lifecycle *chat.Lifecycle
	Presence  presence.Store
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(store *chat.Store, agg *chat.Aggregator, lifecycle *chat.Lifecycle, p presence.Store) *ChatHandler {
	return &ChatHandler{Store: store, Agg: agg, Lifecycle: lifecycle, Presence: p}
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	ActivityID  uint   `json:"activityId" binding:"required"`
	RecipientID uint   `json:"recipientId" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// SendMessage handles appending a new message to a conversation.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	senderID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Sender ID not found in token")
		return
	}

	if senderID == req.RecipientID {
		utils.BadRequest(c, "Cannot send a message to yourself.")
		return
	}

	message, err := h.Store.Append(req.ActivityID, senderID, req.RecipientID, req.Message)
	switch {
	case errors.Is(err, chat.ErrValidation):
		utils.BadRequest(c, err.Error())
		return
	case errors.Is(err, chat.ErrConversationClosed):
		utils.Forbidden(c, "This chat is closed.")
		return
	case err != nil:
		utils.InternalServerError(c, "Failed to send message: "+err.Error())
		return
	}

	utils.Created(c, "Message sent successfully", message)
}

// FetchResponse carries a conversation's messages together with its
// closed flag, matching what the polling client renders.
type FetchResponse struct {
	Closed   int                  `json:"closed"`
	Messages []models.ChatMessage `json:"messages"`
}

// FetchMessages returns the full message list between the current user and
// another user for one activity. Fetching never mutates read state; the
// client calls MarkRead explicitly.
func (h *ChatHandler) FetchMessages(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	activityID, ok := queryID(c, "activity_id")
	if !ok {
		return
	}
	otherUser, ok := queryID(c, "other_user")
	if !ok {
		return
	}

	messages, err := h.Store.ListBetween(activityID, userID, otherUser)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		return
	}

	closed, err := h.Lifecycle.IsClosed(activityID)
	if err != nil {
		utils.InternalServerError(c, "Failed to read conversation state: "+err.Error())
		return
	}

	response := FetchResponse{Messages: messages}
	if closed {
		response.Closed = 1
	}
	utils.Success(c, "Messages fetched successfully", response)
}

// MarkReadRequest represents the request body for marking messages read.
type MarkReadRequest struct {
	ActivityID uint `json:"activityId" binding:"required"`
	OtherUser  uint `json:"otherUser" binding:"required"`
}

// MarkRead flags the other user's messages to the current user as read.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	var req MarkReadRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.Store.MarkRead(req.ActivityID, userID, req.OtherUser); err != nil {
		if errors.Is(err, chat.ErrValidation) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to mark messages as read: "+err.Error())
		}
		return
	}

	utils.Success(c, "Messages marked as read", gin.H{"success": true})
}

// GetConversations returns the current user's conversation dashboard.
func (h *ChatHandler) GetConversations(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	summaries, err := h.Agg.ConversationsFor(userID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch conversations: "+err.Error())
		return
	}

	utils.Success(c, "Conversations fetched successfully", summaries)
}

// CloseRequest represents the request body for closing a conversation.
type CloseRequest struct {
	ActivityID uint `json:"activityId" binding:"required"`
}

// CloseChat closes every conversation under an activity. Participants can
// close their own chats; admins can close any.
func (h *ChatHandler) CloseChat(c *gin.Context) {
	var req CloseRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	err := h.Lifecycle.ManualClose(req.ActivityID, userID, middleware.IsAdmin(c))
	switch {
	case errors.Is(err, chat.ErrPermission):
		utils.Forbidden(c, "You do not have permission to close this chat.")
		return
	case errors.Is(err, chat.ErrValidation):
		utils.BadRequest(c, err.Error())
		return
	case err != nil:
		utils.InternalServerError(c, "Failed to close chat: "+err.Error())
		return
	}

	utils.Success(c, "Chat closed successfully", gin.H{"success": true})
}

// ClearAll wipes the entire message store. Operational/debug use only.
func (h *ChatHandler) ClearAll(c *gin.Context) {
	if err := h.Store.PurgeAll(); err != nil {
		utils.InternalServerError(c, "Failed to clear messages: "+err.Error())
		return
	}
	utils.Success(c, "All messages deleted", gin.H{"success": true})
}

// TouchLastSeen records the current user as active. The client calls this
// on page load and every couple of minutes; failures are logged, not
// surfaced, because losing one touch only risks a redundant email.
func (h *ChatHandler) TouchLastSeen(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.Presence.Touch(c.Request.Context(), userID); err != nil {
		log.Printf("presence: touch user %d: %v", userID, err)
	}
	utils.Success(c, "Presence updated", nil)
}

// queryID parses a required uint query parameter, responding with a 400 on
// absence or garbage.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		utils.BadRequest(c, "Missing required parameter: "+name)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid parameter: "+name)
		return 0, false
	}
	return uint(id), true
}
