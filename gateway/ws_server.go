package gateway

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"skillswap/logger"
	"skillswap/module/chat/model"
	"skillswap/tools/errs"
	"skillswap/tools/ids"
)

// Identity resolves a bearer credential to a user id (AuthError on
// anything that does not resolve).
type Identity interface {
	Resolve(ctx context.Context, credential string) (uuid.UUID, error)
}

// GroupAPI is the slice of group functionality the gateway needs:
// the membership gate for subscription authorization and the post
// operation for messages sent over the socket.
type GroupAPI interface {
	IsMember(ctx context.Context, group, user uuid.UUID) (bool, error)
	Post(ctx context.Context, group, sender uuid.UUID, text string) (*model.GroupMessage, error)
}

// Presence records connection liveness outside the process (redis);
// best-effort, failures only cost visibility.
type Presence interface {
	Online(ctx context.Context, user, connID string) error
	Offline(ctx context.Context, user, connID string) error
}

// ConnectLimiter bounds how often one user may establish connections.
type ConnectLimiter interface {
	Allow(ctx context.Context, user string) (bool, error)
}

type Config struct {
	SendQueueSize int
	StoreWorkers  int
	StoreQueue    int
	AuthDeadline  time.Duration // how long an unauthenticated socket may live
	StoreTimeout  time.Duration // budget for one durable write
	WriteTimeout  time.Duration
	PingInterval  time.Duration
	PongTimeout   time.Duration
}

func (c *Config) norm() {
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = 256
	}
	if c.StoreWorkers <= 0 {
		c.StoreWorkers = 8
	}
	if c.StoreQueue <= 0 {
		c.StoreQueue = 256
	}
	if c.AuthDeadline <= 0 {
		c.AuthDeadline = 15 * time.Second
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 5 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 25 * time.Second
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = 75 * time.Second
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server terminates websocket connections, authenticates them,
// authorizes subscriptions and routes pushes. One read goroutine and
// one write goroutine per connection; nothing here blocks on storage
// (that goes through the worker pool).
type Server struct {
	cfg      Config
	reg      *Registry
	hub      *Hub
	disp     *Dispatcher
	identity Identity
	groups   GroupAPI
	presence Presence
	limiter  ConnectLimiter
	pool     *WorkerPool
}

func NewServer(cfg Config, reg *Registry, hub *Hub, identity Identity, groups GroupAPI, presence Presence, limiter ConnectLimiter) *Server {
	cfg.norm()
	s := &Server{
		cfg:      cfg,
		reg:      reg,
		hub:      hub,
		identity: identity,
		groups:   groups,
		presence: presence,
		limiter:  limiter,
		pool:     NewWorkerPool(cfg.StoreWorkers, cfg.StoreQueue),
	}
	d := NewDispatcher()
	d.Register(&authHandler{})
	d.Register(&subscribeHandler{})
	d.Register(&unsubscribeHandler{})
	d.Register(&pingHandler{})
	d.Register(&typingHandler{})
	d.Register(&sendHandler{})
	s.disp = d
	return s
}

func (s *Server) Registry() *Registry { return s.reg }

func (s *Server) Hub() *Hub { return s.hub }

// HandleWS upgrades the request and runs the connection's read loop.
// A bearer credential presented at the handshake authenticates
// immediately; otherwise the client gets AuthDeadline to send an auth
// frame, and nothing but auth is accepted until it does.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade error: %v", err)
		return
	}

	conn := NewConn(ids.GenerateString(), ws, s.cfg.SendQueueSize)
	go conn.writePump(s.cfg.PingInterval, s.cfg.WriteTimeout)

	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})

	if cred := bearerFromRequest(c.Request); cred != "" {
		if err := s.Authenticate(conn, cred); err != nil {
			logger.Infof("[ws] connect auth rejected conn=%s: %v", conn.ID, err)
			s.closeWithPolicy(ws, "authentication failed")
			conn.Close()
			return
		}
	} else {
		// Unauthenticated sockets get a short lease to present a
		// credential in-band.
		_ = ws.SetReadDeadline(time.Now().Add(s.cfg.AuthDeadline))
	}

	conn.Enqueue(buildConnAck(conn.ID))
	s.readLoop(conn, ws)
	s.dropConn(conn)
}

func (s *Server) readLoop(conn *Conn, ws *websocket.Conn) {
	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Debug("[ws] peer closed")
			} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout conn=%s", conn.ID)
			} else {
				logger.Infof("[ws] read error conn=%s: %v", conn.ID, err)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		_ = ws.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))

		f, perr := ParseFrame(data)
		if perr != nil {
			logger.Infof("[ws] bad frame conn=%s: %v", conn.ID, perr)
			continue
		}

		// No anonymous traffic beyond the auth handshake.
		if !conn.Authenticated() && f.Type != FrameAuth {
			logger.Infof("[ws] frame before auth conn=%s type=%s", conn.ID, f.Type)
			conn.Enqueue(buildErrorFrame(errs.CodeAuth, "authenticate first"))
			return
		}

		s.disp.Dispatch(s, f, conn)
	}
}

// Authenticate validates the credential, applies the per-user connect
// rate limit, binds the user and registers the connection.
func (s *Server) Authenticate(conn *Conn, credential string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StoreTimeout)
	defer cancel()

	user, err := s.identity.Resolve(ctx, credential)
	if err != nil {
		return err
	}

	if s.limiter != nil {
		ok, lerr := s.limiter.Allow(ctx, user.String())
		if lerr != nil {
			logger.Warnf("[ws] rate limiter unavailable, allowing user=%s: %v", user, lerr)
		} else if !ok {
			return errs.ErrForbidden.WithDetail("connect rate exceeded")
		}
	}

	conn.BindUser(user)
	s.reg.Add(conn)
	if conn.ws != nil {
		_ = conn.ws.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	}

	if s.presence != nil {
		if perr := s.presence.Online(ctx, user.String(), conn.ID); perr != nil {
			logger.Warnf("[ws] presence online user=%s: %v", user, perr)
		}
	}
	logger.Infof("[ws] authenticated user=%s conn=%s", user, conn.ID)
	return nil
}

// dropConn tears down everything the connection owned. No other
// component keeps a reference, so this is the whole cleanup.
func (s *Server) dropConn(conn *Conn) {
	if conn.Authenticated() {
		s.reg.Remove(conn)
		if s.presence != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := s.presence.Offline(ctx, conn.User().String(), conn.ID); err != nil {
				logger.Warnf("[ws] presence offline user=%s: %v", conn.User(), err)
			}
			cancel()
		}
	}
	conn.Close()
	logger.Infof("[ws] closed conn=%s", conn.ID)
}

func (s *Server) closeWithPolicy(ws *websocket.Conn, reason string) {
	deadline := time.Now().Add(time.Second)
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), deadline)
}

// bearerFromRequest pulls the credential from the Authorization
// header or the token query parameter (browser websocket clients
// cannot set headers).
func bearerFromRequest(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
