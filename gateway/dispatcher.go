package gateway

import (
	"skillswap/logger"
	"skillswap/tools/errs"
)

// Handler processes one inbound frame type.
type Handler interface {
	Type() string
	Handle(s *Server, f *Frame, c *Conn) error
}

type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) { d.handlers[h.Type()] = h }

// Dispatch routes the frame; unknown frame types are logged and
// ignored so a newer client never kills an older gateway.
func (d *Dispatcher) Dispatch(s *Server, f *Frame, c *Conn) {
	h, ok := d.handlers[f.Type]
	if !ok {
		logger.Warnf("[ws] no handler for frame type=%s conn=%s", f.Type, c.ID)
		return
	}
	if err := h.Handle(s, f, c); err != nil {
		logger.Warnf("[ws] handle %s conn=%s: %v", f.Type, c.ID, err)
		c.Enqueue(buildErrorFrame(errs.Code(err), frameErrorMsg(err)))
	}
}

// frameErrorMsg keeps wire errors terse; details stay in the logs.
func frameErrorMsg(err error) string {
	switch errs.Code(err) {
	case errs.CodeAuth:
		return "authentication failed"
	case errs.CodeForbidden:
		return "forbidden"
	case errs.CodeInvalidArgument:
		return "invalid argument"
	case errs.CodeNotFound:
		return "not found"
	case errs.CodeCapacityExceeded:
		return "capacity exceeded"
	case errs.CodeTransient:
		return "temporary failure, retry"
	}
	return "internal error"
}
