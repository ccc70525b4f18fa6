package gateway

import (
	"skillswap/tools/errs"
)

// authHandler binds a user to the connection from an in-band
// credential. Re-authenticating an already bound connection is a
// no-op ack.
type authHandler struct{}

func (authHandler) Type() string { return FrameAuth }

func (authHandler) Handle(s *Server, f *Frame, c *Conn) error {
	if c.Authenticated() {
		c.Enqueue(buildAck(FrameAuth, ""))
		return nil
	}
	p, err := f.AuthPayload()
	if err != nil {
		return errs.ErrInvalidArgument.WithDetail("auth payload")
	}
	if err := s.Authenticate(c, p.Token); err != nil {
		return err
	}
	c.Enqueue(buildAck(FrameAuth, ""))
	return nil
}
