package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/vizier-backend/internal/catalog"
)

var ErrUnknownChampion = errors.New("unknown champion")
var ErrAlreadyRecruited = errors.New("champion already on roster")
var ErrNotOnRoster = errors.New("champion not on roster")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrNegativeAmount = errors.New("negative amount")
var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrInvariantViolation = errors.New("engine invariant violated")

type Status string

const (
	StatusActive       Status = "Active"
	StatusDisqualified Status = "Disqualified"
)

// Outcome is the result code of one challenge attempt.
type Outcome int

const (
	OutcomeNoSuchChallenge    Outcome = -1
	OutcomeWon                Outcome = 0
	OutcomeLostOnSkill        Outcome = 1
	OutcomeNoSuitableChampion Outcome = 2
	OutcomeRareEarthDefeat    Outcome = 3
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoSuchChallenge:
		return "NoSuchChallenge"
	case OutcomeWon:
		return "ChallengeWon"
	case OutcomeLostOnSkill:
		return "LostOnSkill"
	case OutcomeNoSuitableChampion:
		return "NoSuitableChampion"
	case OutcomeRareEarthDefeat:
		return "RareEarthDefeat"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type CommandType string

const (
	CmdRecruit         CommandType = "Recruit"
	CmdRetire          CommandType = "Retire"
	CmdSelectChallenge CommandType = "SelectChallenge"
)

/*
	CmdRecruit         -> EvtChampionRecruited (fee debited)
	CmdRetire          -> EvtChampionRetired (half fee refunded)
	CmdSelectChallenge -> EvtChallengeResolved, then one of
	                      EvtTreasuryCredited | EvtChampionDisqualified |
	                      EvtTreasuryDebited | EvtPenaltyWaived
*/

type Command struct {
	Type      CommandType
	Champion  string
	Challenge int
}

type EventType string

const (
	EvtChampionRecruited    EventType = "ChampionRecruited"
	EvtChampionRetired      EventType = "ChampionRetired"
	EvtChampionDisqualified EventType = "ChampionDisqualified"
	EvtChallengeResolved    EventType = "ChallengeResolved"
	EvtTreasuryCredited     EventType = "TreasuryCredited"
	EvtTreasuryDebited      EventType = "TreasuryDebited"
	EvtPenaltyWaived        EventType = "PenaltyWaived"
)

// Event records one state change. Amount is set on money-moving events,
// Outcome only on EvtChallengeResolved.
type Event struct {
	Type      EventType
	Champion  string
	Challenge int
	Amount    int
	Outcome   Outcome
}

// State is the mutable half of a game session.
type State struct {
	Roster   *Roster
	Treasury *Treasury
}

func NewState(cat *catalog.Catalog, policy TreasuryPolicy) *State {
	return &State{
		Roster:   NewRoster(cat),
		Treasury: NewTreasury(policy),
	}
}

// Engine applies commands to a State. It holds no session state itself.
type Engine struct {
	catalog *catalog.Catalog
	margin  Margin
	log     *zap.Logger
}

func New(cat *catalog.Catalog, margin Margin, log *zap.Logger) *Engine {
	if margin == nil {
		margin = FactorMargin{Percent: DefaultMarginPercent}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: cat, margin: margin, log: log}
}

// Apply validates cmd against s and, only if every check passes, mutates s.
// The Outcome is meaningful for CmdSelectChallenge only.
func (e *Engine) Apply(s *State, cmd Command) ([]Event, Outcome, error) {
	switch cmd.Type {
	case CmdRecruit:
		champion, ok := e.catalog.Champion(cmd.Champion)
		if !ok {
			return nil, 0, ErrUnknownChampion
		}
		if s.Roster.Has(cmd.Champion) {
			return nil, 0, ErrAlreadyRecruited
		}
		if s.Treasury.Balance() < champion.EntryFee {
			return nil, 0, ErrInsufficientFunds
		}

		if err := s.Treasury.Debit(champion.EntryFee); err != nil {
			return nil, 0, err
		}
		if err := s.Roster.Recruit(cmd.Champion); err != nil {
			// checked above; a failure here means the roster and catalog disagree
			panic(fmt.Errorf("%w: recruit %q: %w", ErrInvariantViolation, cmd.Champion, err))
		}

		e.log.Info("champion recruited",
			zap.String("champion", champion.Name),
			zap.Int("amount", champion.EntryFee),
			zap.Int("balance", s.Treasury.Balance()))
		return []Event{{Type: EvtChampionRecruited, Champion: champion.Name, Amount: champion.EntryFee}}, 0, nil

	case CmdRetire:
		refund, err := s.Roster.Retire(cmd.Champion)
		if err != nil {
			return nil, 0, err
		}
		if err := s.Treasury.Credit(refund); err != nil {
			panic(fmt.Errorf("%w: refund %d: %w", ErrInvariantViolation, refund, err))
		}

		e.log.Info("champion retired",
			zap.String("champion", cmd.Champion),
			zap.Int("amount", refund),
			zap.Int("balance", s.Treasury.Balance()))
		return []Event{{Type: EvtChampionRetired, Champion: cmd.Champion, Amount: refund}}, 0, nil

	case CmdSelectChallenge:
		events, outcome := e.Resolve(s, cmd.Challenge)
		return events, outcome, nil

	default:
		return nil, 0, ErrUnsupportedCommand
	}
}

// Reduce rebuilds a State by replaying a recorded event history.
// Events are trusted: no policy checks are repeated.
func Reduce(cat *catalog.Catalog, policy TreasuryPolicy, events []Event) *State {
	s := NewState(cat, policy)
	for _, event := range events {
		switch event.Type {
		case EvtChampionRecruited:
			_ = s.Roster.Recruit(event.Champion)
			s.Treasury.adjust(-event.Amount)
		case EvtChampionRetired:
			_, _ = s.Roster.Retire(event.Champion)
			s.Treasury.adjust(event.Amount)
		case EvtChampionDisqualified:
			s.Roster.Disqualify(event.Champion)
		case EvtTreasuryCredited:
			s.Treasury.adjust(event.Amount)
		case EvtTreasuryDebited:
			s.Treasury.adjust(-event.Amount)
		}
	}
	return s
}
