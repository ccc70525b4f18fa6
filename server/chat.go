package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skillswap/middleware/security"
	"skillswap/module/chat/service"
	"skillswap/tools/errs"
)

type chatHandlers struct {
	directory *service.Directory
	messages  *service.Messages
}

type openConversationReq struct {
	OtherUserID string `json:"otherUserId" binding:"required"`
}

// openConversation returns the single conversation for the caller and
// the named user, creating it on first contact.
func (h *chatHandlers) openConversation(c *gin.Context) {
	var req openConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errs.ErrInvalidArgument.WithDetail("otherUserId is required"))
		return
	}
	other, err := uuid.Parse(req.OtherUserID)
	if err != nil {
		fail(c, errs.ErrInvalidArgument.WithDetail("otherUserId must be a uuid"))
		return
	}
	me := security.CurrentUser(c)
	if other == me {
		fail(c, errs.ErrInvalidArgument.WithDetail("cannot open a conversation with yourself"))
		return
	}

	view, err := h.directory.GetOrCreate(c.Request.Context(), me, other)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}

func (h *chatHandlers) listConversations(c *gin.Context) {
	views, err := h.directory.ListForUser(c.Request.Context(), security.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, views)
}

func (h *chatHandlers) pageMessages(c *gin.Context) {
	conv, okID := pathID(c, "id")
	if !okID {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	msgs, err := h.messages.Page(c.Request.Context(), conv, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, msgs)
}

type sendMessageReq struct {
	Text string `json:"text"`
}

func (h *chatHandlers) sendMessage(c *gin.Context) {
	conv, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errs.ErrInvalidArgument.WithDetail("body must be json"))
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), conv, security.CurrentUser(c), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, msg)
}

func (h *chatHandlers) markRead(c *gin.Context) {
	conv, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.messages.MarkRead(c.Request.Context(), conv, security.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"status": "ok"})
}

func (h *chatHandlers) unreadCount(c *gin.Context) {
	conv, okID := pathID(c, "id")
	if !okID {
		return
	}
	n, err := h.messages.UnreadCount(c.Request.Context(), conv, security.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"unreadCount": n})
}
