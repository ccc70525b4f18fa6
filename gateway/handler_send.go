package gateway

import (
	"context"

	"skillswap/logger"
	"skillswap/tools/errs"
)

// sendHandler posts a group message arriving over the socket. The
// durable write runs on the worker pool so a slow database never
// stalls this connection's read loop; the fanout happens inside the
// group service once the row is committed.
type sendHandler struct{}

func (sendHandler) Type() string { return FrameSend }

func (sendHandler) Handle(s *Server, f *Frame, c *Conn) error {
	t, err := ParseTopic(f.Topic)
	if err != nil || t.Kind != TopicGroup {
		return errs.ErrInvalidArgument.WithDetail("send topic")
	}
	p, err := f.SendPayload()
	if err != nil {
		return errs.ErrInvalidArgument.WithDetail("send payload")
	}

	group, sender := t.ID, c.User()
	ok := s.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StoreTimeout)
		defer cancel()
		if _, perr := s.groups.Post(ctx, group, sender, p.Text); perr != nil {
			logger.Infof("[ws] send failed user=%s group=%s: %v", sender, group, perr)
			c.Enqueue(buildErrorFrame(errs.Code(perr), frameErrorMsg(perr)))
		}
	})
	if !ok {
		return errs.ErrTransient.WithDetail("send queue full")
	}
	return nil
}
