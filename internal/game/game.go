// Package game is the public surface of one Vizier session: it composes the
// catalog, roster, treasury and challenge engine behind the nine operations a
// presentation layer may call.
//
// A Game is a single-actor object and is not safe for concurrent use; wrap it
// in a session.Session when more than one goroutine needs it.
package game

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/vizier-backend/internal/catalog"
	"github.com/DoyleJ11/vizier-backend/internal/engine"
)

// ChampionNotFound is returned by GetChampionDetails for names outside the catalog.
const ChampionNotFound = "No such champion"

// StatusAvailable is shown for catalog champions that are not on the roster.
const StatusAvailable = "Available"

// Options configures a new game. The zero value lets penalties overdraw the
// treasury; StrictTreasury refuses any debit the balance cannot cover and
// waives the penalty instead.
type Options struct {
	StartingTreasury int
	StrictTreasury   bool
	Margin           engine.Margin
	Logger           *zap.Logger
}

type Game struct {
	catalog *catalog.Catalog
	engine  *engine.Engine
	state   *engine.State
	policy  engine.TreasuryPolicy
	history []engine.Event
	log     *zap.Logger
}

func New(cat *catalog.Catalog, opts Options) *Game {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	policy := engine.TreasuryPolicy{Initial: opts.StartingTreasury, AllowNegative: !opts.StrictTreasury}
	return &Game{
		catalog: cat,
		engine:  engine.New(cat, opts.Margin, log),
		state:   engine.NewState(cat, policy),
		policy:  policy,
		log:     log,
	}
}

// AddChampion recruits name if it exists, is not already on the roster and
// the treasury covers its entry fee. On false nothing has changed.
func (g *Game) AddChampion(name string) bool {
	_, ok := g.apply(engine.Command{Type: engine.CmdRecruit, Champion: name})
	return ok
}

// RetireChampion removes name from the roster and refunds half its fee.
func (g *Game) RetireChampion(name string) bool {
	_, ok := g.apply(engine.Command{Type: engine.CmdRetire, Champion: name})
	return ok
}

// SelectChallenge returns -1 (no such challenge), 0 (won), 1 (lost on skill,
// champion disqualified), 2 (no suitable champion) or 3 (Rare Earth defeat).
func (g *Game) SelectChallenge(number int) int {
	outcome, _ := g.apply(engine.Command{Type: engine.CmdSelectChallenge, Challenge: number})
	return int(outcome)
}

func (g *Game) apply(cmd engine.Command) (engine.Outcome, bool) {
	events, outcome, err := g.engine.Apply(g.state, cmd)
	if err != nil {
		if !isGameplayError(err) {
			g.log.Error("command failed", zap.String("command", string(cmd.Type)), zap.Error(err))
		} else {
			g.log.Debug("command rejected",
				zap.String("command", string(cmd.Type)),
				zap.String("champion", cmd.Champion),
				zap.Error(err))
		}
		return outcome, false
	}
	g.history = append(g.history, events...)
	return outcome, true
}

func isGameplayError(err error) bool {
	return errors.Is(err, engine.ErrUnknownChampion) ||
		errors.Is(err, engine.ErrAlreadyRecruited) ||
		errors.Is(err, engine.ErrInsufficientFunds) ||
		errors.Is(err, engine.ErrNotOnRoster)
}

func (g *Game) ViewTreasury() int { return g.state.Treasury.Balance() }

func (g *Game) ViewTeamState() string { return g.state.Roster.TeamState() }

func (g *Game) GetChampionDetails(name string) string {
	champion, ok := g.catalog.Champion(name)
	if !ok {
		return ChampionNotFound
	}
	status := StatusAvailable
	if st, on := g.state.Roster.Status(name); on {
		status = string(st)
	}
	return engine.FormatChampion(champion, status)
}

func (g *Game) ListAvailableChampions() []string {
	avail := g.state.Roster.AvailableToRecruit()
	out := make([]string, 0, len(avail))
	for _, c := range avail {
		out = append(out, engine.FormatChampion(c, StatusAvailable))
	}
	return out
}

func (g *Game) ListChallenges() []string {
	chs := g.catalog.Challenges()
	out := make([]string, 0, len(chs))
	for _, c := range chs {
		out = append(out, engine.FormatChallenge(c))
	}
	return out
}

// Defeated reports whether the Vizier can no longer play on: the treasury is
// in debt, or it is empty with no Active champion left.
func (g *Game) Defeated() bool {
	balance := g.state.Treasury.Balance()
	return balance < 0 || (balance == 0 && g.state.Roster.ActiveCount() == 0)
}

// ViewGameState renders treasury, defeat flag, team, recruitable champions
// and challenges, in that order.
func (g *Game) ViewGameState() string {
	var b strings.Builder
	fmt.Fprintf(&b, "treasury=%d\n", g.ViewTreasury())
	fmt.Fprintf(&b, "defeated=%t\n", g.Defeated())
	writeSection(&b, "team", strings.Split(g.ViewTeamState(), "\n"))
	writeSection(&b, "available", g.ListAvailableChampions())
	writeSection(&b, "challenges", g.ListChallenges())
	return strings.TrimSuffix(b.String(), "\n")
}

func writeSection(b *strings.Builder, title string, lines []string) {
	fmt.Fprintf(b, "%s:\n", title)
	for _, line := range lines {
		if line == "" {
			continue
		}
		fmt.Fprintf(b, "  %s\n", line)
	}
}

// History returns a copy of every event recorded so far.
func (g *Game) History() []engine.Event {
	return append([]engine.Event(nil), g.history...)
}

// Replay rebuilds this game's state from its own history and reports whether
// it matches the live state.
func (g *Game) Replay() bool {
	rebuilt := engine.Reduce(g.catalog, g.policy, g.history)
	return rebuilt.Treasury.Balance() == g.state.Treasury.Balance() &&
		rebuilt.Roster.TeamState() == g.state.Roster.TeamState()
}

// InitialTreasury is the balance the game started with.
func (g *Game) InitialTreasury() int { return g.policy.Initial }
