// Package console is a line-oriented driver for Vizier sessions. It parses
// one command per line, forwards it to the current session and prints what
// the game returns.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/vizier-backend/internal/engine"
	"github.com/DoyleJ11/vizier-backend/internal/game"
	"github.com/DoyleJ11/vizier-backend/internal/hub"
	"github.com/DoyleJ11/vizier-backend/internal/session"
)

var errQuit = errors.New("quit")

const helpText = `commands:
  add <name>        recruit a champion
  retire <name>     retire a champion for half its fee
  challenge <n>     enter challenge n
  treasury          show the treasury balance
  team              show the current team
  champion <name>   show one champion
  champions         list champions available to recruit
  challenges        list challenges
  state             show the whole game state
  history           show recorded events
  new               start a new session and switch to it
  sessions          list open sessions
  use <code>        switch to another session
  help              show this text
  quit              leave`

var outcomeText = map[int]string{
	-1: "no such challenge",
	0:  "challenge won, reward added to treasury",
	1:  "challenge lost on skill level, champion disqualified",
	2:  "challenge lost, no suitable champion, reward deducted",
	3:  "defeated by Rare Earth, reward deducted",
}

// NewGameFunc builds a fresh game for the "new" command.
type NewGameFunc func() *game.Game

type Console struct {
	hub     *hub.Hub
	newGame NewGameFunc
	current *session.Session
	out     io.Writer
	log     *zap.Logger
}

func New(h *hub.Hub, newGame NewGameFunc, current *session.Session, out io.Writer, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{hub: h, newGame: newGame, current: current, out: out, log: log}
}

// Run executes commands from in until EOF, "quit" or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	c.printf("session %s\n", c.current.Code())
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if ctx.Err() != nil {
				return nil
			}
			if err := c.Exec(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				if errors.Is(err, context.Canceled) {
					return nil
				}
				c.printf("error: %v\n", err)
			}
		}
	}
}

// Exec runs a single command line.
func (c *Console) Exec(ctx context.Context, line string) error {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "":
		return nil
	case "help":
		c.printf("%s\n", helpText)
	case "quit", "exit":
		return errQuit

	case "add":
		return c.do(ctx, session.Command{Type: session.CmdAddChampion, Champion: arg}, func(r session.Result) string {
			if r.OK {
				return fmt.Sprintf("%s joined the team", arg)
			}
			return fmt.Sprintf("could not recruit %s", arg)
		})
	case "retire":
		return c.do(ctx, session.Command{Type: session.CmdRetireChampion, Champion: arg}, func(r session.Result) string {
			if r.OK {
				return fmt.Sprintf("%s retired", arg)
			}
			return fmt.Sprintf("%s is not on the team", arg)
		})
	case "challenge":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("challenge number: %w", err)
		}
		return c.do(ctx, session.Command{Type: session.CmdSelectChallenge, Challenge: n}, func(r session.Result) string {
			return fmt.Sprintf("%d: %s", r.Code, outcomeText[r.Code])
		})

	case "treasury":
		return c.view(ctx, func(g *game.Game) string { return fmt.Sprintf("treasury=%d", g.ViewTreasury()) })
	case "team":
		return c.view(ctx, func(g *game.Game) string { return orNone(g.ViewTeamState()) })
	case "champion":
		return c.view(ctx, func(g *game.Game) string { return g.GetChampionDetails(arg) })
	case "champions":
		return c.view(ctx, func(g *game.Game) string { return orNone(strings.Join(g.ListAvailableChampions(), "\n")) })
	case "challenges":
		return c.view(ctx, func(g *game.Game) string { return strings.Join(g.ListChallenges(), "\n") })
	case "state":
		return c.view(ctx, func(g *game.Game) string { return g.ViewGameState() })
	case "history":
		return c.view(ctx, func(g *game.Game) string { return formatHistory(g) })

	case "new":
		s, err := c.hub.Open(c.newGame())
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		c.current = s
		c.printf("session %s\n", s.Code())
	case "sessions":
		for _, code := range c.hub.List() {
			marker := " "
			if code == c.current.Code() {
				marker = "*"
			}
			c.printf("%s %s\n", marker, code)
		}
	case "use":
		s := c.hub.Get(strings.ToUpper(arg))
		if s == nil {
			return fmt.Errorf("no session %q", arg)
		}
		c.current = s
		c.printf("session %s\n", s.Code())

	default:
		return fmt.Errorf("unknown command %q (try help)", verb)
	}
	return nil
}

func (c *Console) do(ctx context.Context, cmd session.Command, describe func(session.Result) string) error {
	if cmd.Type != session.CmdSelectChallenge && cmd.Champion == "" {
		return errors.New("champion name required")
	}
	res, err := c.current.Do(ctx, cmd)
	if err != nil {
		return err
	}
	c.log.Debug("command executed",
		zap.String("session", c.current.Code()),
		zap.String("command", string(cmd.Type)),
		zap.Bool("ok", res.OK),
		zap.Int("code", res.Code))
	c.printf("%s\n", describe(res))
	return nil
}

func (c *Console) view(ctx context.Context, render func(g *game.Game) string) error {
	var text string
	if err := c.current.View(ctx, func(g *game.Game) { text = render(g) }); err != nil {
		return err
	}
	c.printf("%s\n", text)
	return nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func formatHistory(g *game.Game) string {
	events := g.History()
	if len(events) == 0 {
		return "(none)"
	}
	lines := make([]string, 0, len(events)+1)
	for i, e := range events {
		line := fmt.Sprintf("%d %s", i+1, e.Type)
		if e.Champion != "" {
			line += fmt.Sprintf(" champion=%q", e.Champion)
		}
		if e.Type == engine.EvtChallengeResolved {
			line += fmt.Sprintf(" challenge=%d outcome=%s", e.Challenge, e.Outcome)
		}
		if e.Amount != 0 {
			line += fmt.Sprintf(" amount=%d", e.Amount)
		}
		lines = append(lines, line)
	}
	credits, debits := engine.Ledger(events)
	lines = append(lines, fmt.Sprintf("credits=%d debits=%d consistent=%t", credits, debits, g.Replay()))
	return strings.Join(lines, "\n")
}
