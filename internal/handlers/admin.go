package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"listing-chat-server/internal/chat"
	"listing-chat-server/internal/notify"
	"listing-chat-server/internal/utils"
)

// AdminHandler serves the read-only oversight endpoints. Routes using it
// sit behind the admin role middleware.
type AdminHandler struct {
	Agg        *chat.Aggregator
	Dispatcher *notify.Dispatcher
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(agg *chat.Aggregator, dispatcher *notify.Dispatcher) *AdminHandler {
	return &AdminHandler{Agg: agg, Dispatcher: dispatcher}
}

// AllConversations lists every conversation in the system.
func (h *AdminHandler) AllConversations(c *gin.Context) {
	details, err := h.Agg.AllConversations()
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch conversations: "+err.Error())
		return
	}
	utils.Success(c, "Conversations fetched successfully", details)
}

// ConversationMessages returns one conversation's messages with sender
// names for the read-only admin view.
func (h *AdminHandler) ConversationMessages(c *gin.Context) {
	activityID, ok := queryID(c, "activity_id")
	if !ok {
		return
	}
	user1, ok := queryID(c, "user1")
	if !ok {
		return
	}
	user2, ok := queryID(c, "user2")
	if !ok {
		return
	}

	messages, err := h.Agg.ConversationMessages(activityID, user1, user2)
	if err != nil {
		if errors.Is(err, chat.ErrValidation) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		}
		return
	}
	utils.Success(c, "Messages fetched successfully", messages)
}

// EmailLogResponse carries the dispatch log for the admin panel.
type EmailLogResponse struct {
	Emails []notify.Record `json:"emails"`
	Total  int             `json:"total"`
}

// EmailLog returns the rolling notification dispatch log, newest first.
func (h *AdminHandler) EmailLog(c *gin.Context) {
	ringLog := h.Dispatcher.Log()
	utils.Success(c, "Email log fetched successfully", EmailLogResponse{
		Emails: ringLog.Records(),
		Total:  ringLog.Total(),
	})
}
