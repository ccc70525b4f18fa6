package gateway

import (
	"context"

	"skillswap/logger"
	"skillswap/tools/errs"
)

// typingHandler relays a transient typing indicator to the group's
// typing topic. Nothing is persisted and nothing is acked; indicators
// from non-members are dropped the same way unauthorized
// subscriptions are.
type typingHandler struct{}

func (typingHandler) Type() string { return FrameTyping }

func (typingHandler) Handle(s *Server, f *Frame, c *Conn) error {
	t, err := ParseTopic(f.Topic)
	if err != nil || t.Kind != TopicGroupTyping {
		return errs.ErrInvalidArgument.WithDetail("typing topic")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StoreTimeout)
	defer cancel()
	ok, err := s.groups.IsMember(ctx, t.ID, c.User())
	if err != nil {
		return errs.ErrTransient.WrapMsg("membership check", err)
	}
	if !ok {
		logger.Infof("[ws] typing dropped user=%s group=%s", c.User(), t.ID)
		return nil
	}

	s.hub.PushTyping(t.ID, map[string]any{
		"userId": c.User().String(),
		"typing": f.Payload["typing"] != false,
	})
	return nil
}
