package server

import (
	"github.com/gin-gonic/gin"

	"skillswap/gateway"
	"skillswap/middleware/security"
	"skillswap/module/chat/service"
)

// Services bundles everything the router mounts.
type Services struct {
	Identity      *service.Identity
	Directory     *service.Directory
	Messages      *service.Messages
	Groups        *service.Groups
	Notifications *service.Notifications
	Gateway       *gateway.Server
}

// NewRouter builds the gin engine. Every /api route sits behind the
// bearer middleware; the websocket endpoint authenticates on its own
// (header, query param or in-band auth frame).
func NewRouter(svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/ws", svc.Gateway.HandleWS)

	chat := chatHandlers{directory: svc.Directory, messages: svc.Messages}
	grp := groupHandlers{groups: svc.Groups}
	ntf := notificationHandlers{notifications: svc.Notifications}

	api := r.Group("/api", security.Auth(svc.Identity))
	{
		api.POST("/chat/conversations", chat.openConversation)
		api.GET("/chat/conversations", chat.listConversations)
		api.GET("/chat/conversations/:id/messages", chat.pageMessages)
		api.POST("/chat/conversations/:id/messages", chat.sendMessage)
		api.POST("/chat/conversations/:id/read", chat.markRead)
		api.GET("/chat/conversations/:id/unread", chat.unreadCount)

		api.POST("/groups", grp.create)
		api.GET("/groups", grp.list)
		api.GET("/groups/:id", grp.get)
		api.POST("/groups/:id/join", grp.join)
		api.POST("/groups/:id/leave", grp.leave)
		api.DELETE("/groups/:id", grp.remove)
		api.GET("/groups/:id/members", grp.members)
		api.GET("/groups/:id/messages", grp.messages)
		api.POST("/groups/:id/messages", grp.post)

		api.GET("/notifications", ntf.list)
		api.POST("/notifications/:id/read", ntf.markRead)
		api.DELETE("/notifications/:id", ntf.remove)
	}
	return r
}
