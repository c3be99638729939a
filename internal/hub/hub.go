package hub

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"go.uber.org/zap"

	"github.com/DoyleJ11/vizier-backend/internal/game"
	"github.com/DoyleJ11/vizier-backend/internal/session"
)

var ErrClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

// CreateSession starts a session for Game under Code. An existing session
// with the same code is returned unchanged.
type CreateSession struct {
	Code  string
	Game  *game.Game
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ListSessions struct {
	Reply chan []string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ListSessions) isHubMsg()  {}
func (ShutdownHub) isHubMsg()   {}

// Hub keeps independent sessions apart; no game state is shared between them.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if s := h.sessions[msg.Code]; s != nil {
					msg.Reply <- s
					break
				}
				s := session.New(h.ctx, msg.Code, msg.Game, h.log)
				h.sessions[msg.Code] = s
				h.log.Info("session created", zap.String("session", msg.Code))
				msg.Reply <- s

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case RemoveSession:
				if s := h.sessions[msg.Code]; s != nil {
					s.Inbox() <- session.Shutdown{}
					delete(h.sessions, msg.Code)
				}

			case ListSessions:
				codes := make([]string, 0, len(h.sessions))
				for code := range h.sessions {
					codes = append(codes, code)
				}
				sort.Strings(codes)
				msg.Reply <- codes

			case ShutdownHub:
				for _, s := range h.sessions {
					s.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}

// GenerateCode returns a random 6-character session code.
func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// Open starts a session for g under a fresh code.
func (h *Hub) Open(g *game.Game) (*session.Session, error) {
	for {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		existing, err := h.request(code, func(reply chan *session.Session) HubMsg {
			return GetSession{Code: code, Reply: reply}
		})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			h.log.Debug("collision on code, regenerating")
			continue
		}
		return h.request(code, func(reply chan *session.Session) HubMsg {
			return CreateSession{Code: code, Game: g, Reply: reply}
		})
	}
}

// Get returns the session for code, or nil if there is none or the hub has stopped.
func (h *Hub) Get(code string) *session.Session {
	s, _ := h.request(code, func(reply chan *session.Session) HubMsg {
		return GetSession{Code: code, Reply: reply}
	})
	return s
}

// List returns the open session codes, sorted. It is empty once the hub has stopped.
func (h *Hub) List() []string {
	reply := make(chan []string, 1)
	if err := h.send(ListSessions{Reply: reply}); err != nil {
		return nil
	}
	select {
	case codes := <-reply:
		return codes
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) request(code string, build func(chan *session.Session) HubMsg) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	if err := h.send(build(reply)); err != nil {
		return nil, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-h.ctx.Done():
		select {
		case s := <-reply:
			return s, nil
		default:
			return nil, fmt.Errorf("%w: session %s", ErrClosed, code)
		}
	}
}

func (h *Hub) send(m HubMsg) error {
	select {
	case <-h.ctx.Done():
		return ErrClosed
	default:
	}
	select {
	case h.inbox <- m:
		return nil
	case <-h.ctx.Done():
		return ErrClosed
	}
}
