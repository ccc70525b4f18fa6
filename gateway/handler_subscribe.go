package gateway

import (
	"context"

	"skillswap/logger"
	"skillswap/tools/errs"
)

// subscribeHandler attaches the connection to a push topic. A
// malformed topic is reported back; a topic the user is not allowed
// to hear is dropped without a reply, so probing reveals nothing.
type subscribeHandler struct{}

func (subscribeHandler) Type() string { return FrameSubscribe }

func (subscribeHandler) Handle(s *Server, f *Frame, c *Conn) error {
	t, err := ParseTopic(f.Topic)
	if err != nil {
		return errs.ErrInvalidArgument.WithDetail("topic")
	}

	ok, err := s.authorize(c, t)
	if err != nil {
		return err
	}
	if !ok {
		logger.Infof("[ws] subscribe denied user=%s topic=%s", c.User(), t)
		return nil
	}

	s.reg.Subscribe(c, t.String())
	c.Enqueue(buildAck(FrameSubscribe, t.String()))
	return nil
}

type unsubscribeHandler struct{}

func (unsubscribeHandler) Type() string { return FrameUnsubscribe }

func (unsubscribeHandler) Handle(s *Server, f *Frame, c *Conn) error {
	t, err := ParseTopic(f.Topic)
	if err != nil {
		return errs.ErrInvalidArgument.WithDetail("topic")
	}
	s.reg.Unsubscribe(c, t.String())
	c.Enqueue(buildAck(FrameUnsubscribe, t.String()))
	return nil
}

// authorize decides whether the bound user may receive a topic.
// Group topics (messages and typing alike) require membership; a
// user topic is only ever one's own.
func (s *Server) authorize(c *Conn, t Topic) (bool, error) {
	switch t.Kind {
	case TopicUser:
		return t.ID == c.User(), nil
	case TopicGroup, TopicGroupTyping:
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StoreTimeout)
		defer cancel()
		ok, err := s.groups.IsMember(ctx, t.ID, c.User())
		if err != nil {
			return false, errs.ErrTransient.WrapMsg("membership check", err)
		}
		return ok, nil
	default:
		return false, nil
	}
}
