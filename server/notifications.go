package server

import (
	"github.com/gin-gonic/gin"

	"skillswap/middleware/security"
	"skillswap/module/chat/service"
)

type notificationHandlers struct {
	notifications *service.Notifications
}

func (h *notificationHandlers) list(c *gin.Context) {
	list, err := h.notifications.ListForUser(c.Request.Context(), security.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *notificationHandlers) markRead(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id, security.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"status": "ok"})
}

func (h *notificationHandlers) remove(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), id, security.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"status": "deleted"})
}
