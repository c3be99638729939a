package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/vizier-backend/internal/game"
)

var ErrClosed = errors.New("session closed")

type CommandType string

const (
	CmdAddChampion     CommandType = "AddChampion"
	CmdRetireChampion  CommandType = "RetireChampion"
	CmdSelectChallenge CommandType = "SelectChallenge"
)

type Command struct {
	Type      CommandType
	Champion  string
	Challenge int
}

// Result carries OK for add/retire and Code for challenge selection.
type Result struct {
	OK   bool
	Code int
}

type Msg interface{ isSessionMsg() }

type FromVizier struct {
	Cmd   Command
	Reply chan Result
}

func (FromVizier) isSessionMsg() {}

// Query runs Fn against the game inside the session goroutine. Fn must not
// retain the game.
type Query struct {
	Fn    func(g *game.Game)
	Reply chan struct{}
}

func (Query) isSessionMsg() {}

type Join struct {
	ObserverID string
	Outbox     chan Snapshot // where this observer receives snapshots
}

func (Join) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Snapshot struct {
	Version  int
	Treasury int
	Team     string
}

type View struct {
	Version      int
	NumObservers int
	Treasury     int
}

// Session owns one game and serializes every operation on it through a
// single goroutine, so check-then-mutate sequences never interleave.
type Session struct {
	code      string
	inbox     chan Msg
	game      *game.Game
	version   int
	observers map[string]chan Snapshot
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(parent context.Context, code string, g *game.Game, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		code:      code,
		inbox:     make(chan Msg, 64),
		game:      g,
		observers: make(map[string]chan Snapshot),
		log:       log.With(zap.String("session", code)),
		ctx:       ctx,
		cancel:    cancel,
	}

	go s.loop()
	return s
}

func (s *Session) Code() string { return s.code }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// an outbox that cannot take the first snapshot is never registered
				select {
				case msg.Outbox <- s.snapshot():
					s.observers[msg.ObserverID] = msg.Outbox
				default:
					s.log.Debug("refusing blocked observer", zap.String("observer", msg.ObserverID))
					close(msg.Outbox)
				}

			case FromVizier:
				res, changed := s.execute(msg.Cmd)
				if changed {
					s.version++
					s.broadcast(s.snapshot())
				}
				msg.Reply <- res

			case Query:
				msg.Fn(s.game)
				close(msg.Reply)

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:      s.version,
					NumObservers: len(s.observers),
					Treasury:     s.game.ViewTreasury(),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// execute reports whether the command changed the treasury or the team.
// Waived penalties and unknown challenges leave both untouched.
func (s *Session) execute(cmd Command) (Result, bool) {
	before := s.snapshot()

	var res Result
	switch cmd.Type {
	case CmdAddChampion:
		res.OK = s.game.AddChampion(cmd.Champion)
	case CmdRetireChampion:
		res.OK = s.game.RetireChampion(cmd.Champion)
	case CmdSelectChallenge:
		res.Code = s.game.SelectChallenge(cmd.Challenge)
		res.OK = res.Code >= 0
	default:
		s.log.Warn("unknown command", zap.String("command", string(cmd.Type)))
		return Result{}, false
	}

	return res, s.snapshot() != before
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{Version: s.version, Treasury: s.game.ViewTreasury(), Team: s.game.ViewTeamState()}
}

func (s *Session) shutdown() {
	for id, ch := range s.observers {
		close(ch) // no more snapshots
		delete(s.observers, id)
	}
	s.cancel()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.observers {
		select {
		case ch <- snap:
		default:
			// slow observer, drop it
			s.log.Debug("dropping slow observer", zap.String("observer", id))
			close(ch)
			delete(s.observers, id)
		}
	}
}

// Inbox exposes the raw message channel.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session has stopped.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Do sends cmd and waits for its result. A context that is already done
// fails before anything is queued; once queued, the command runs and Do
// reports its result even if ctx is cancelled meanwhile.
func (s *Session) Do(ctx context.Context, cmd Command) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	reply := make(chan Result, 1)
	if err := s.send(ctx, FromVizier{Cmd: cmd, Reply: reply}); err != nil {
		return Result{}, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-s.ctx.Done():
		select {
		case res := <-reply:
			return res, nil
		default:
			return Result{}, ErrClosed
		}
	}
}

// View runs fn against the game without racing other operations.
func (s *Session) View(ctx context.Context, fn func(g *game.Game)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	reply := make(chan struct{})
	if err := s.send(ctx, Query{Fn: fn, Reply: reply}); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		select {
		case <-reply:
			return nil
		default:
			return ErrClosed
		}
	}
}

func (s *Session) send(ctx context.Context, m Msg) error {
	select {
	case <-s.ctx.Done():
		return ErrClosed
	default:
	}
	select {
	case s.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	}
}
