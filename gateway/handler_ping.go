package gateway

type pingHandler struct{}

func (pingHandler) Type() string { return FramePing }

func (pingHandler) Handle(s *Server, f *Frame, c *Conn) error {
	c.Enqueue(buildPong())
	return nil
}
