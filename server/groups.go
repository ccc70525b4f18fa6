package server

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"skillswap/middleware/security"
	"skillswap/module/chat/service"
	"skillswap/tools/errs"
)

type groupHandlers struct {
	groups *service.Groups
}

type createGroupReq struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	RelatedSkill string `json:"relatedSkill"`
	MaxMembers   int    `json:"maxMembers"`
	IsPrivate    bool   `json:"isPrivate"`
}

func (h *groupHandlers) create(c *gin.Context) {
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errs.ErrInvalidArgument.WithDetail("body must be json"))
		return
	}
	grp, err := h.groups.Create(c.Request.Context(), security.CurrentUser(c),
		req.Name, req.Description, req.RelatedSkill, req.MaxMembers, req.IsPrivate)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, grp)
}

func (h *groupHandlers) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	groups, err := h.groups.List(c.Request.Context(), c.Query("skill"), page, size)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, groups)
}

func (h *groupHandlers) get(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	grp, err := h.groups.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, grp)
}

func (h *groupHandlers) join(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.groups.Join(c.Request.Context(), id, security.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"status": "joined"})
}

func (h *groupHandlers) leave(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.groups.Leave(c.Request.Context(), id, security.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"status": "left"})
}

func (h *groupHandlers) remove(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id, security.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"status": "deleted"})
}

func (h *groupHandlers) members(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	list, err := h.groups.ListMembers(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *groupHandlers) messages(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	msgs, err := h.groups.Recent(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, msgs)
}

type postGroupMessageReq struct {
	Text string `json:"text"`
}

func (h *groupHandlers) post(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req postGroupMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errs.ErrInvalidArgument.WithDetail("body must be json"))
		return
	}
	msg, err := h.groups.Post(c.Request.Context(), id, security.CurrentUser(c), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, msg)
}
