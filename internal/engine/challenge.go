package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/vizier-backend/internal/catalog"
)

// Resolve runs one challenge attempt against s:
// lookup, champion selection, boss check, then the skill margin check.
func (e *Engine) Resolve(s *State, number int) ([]Event, Outcome) {
	challenge, ok := e.catalog.Challenge(number)
	if !ok {
		e.log.Debug("no such challenge", zap.Int("challenge", number))
		return nil, OutcomeNoSuchChallenge
	}

	champion, ok := s.Roster.AvailableForChallenge(challenge.RequiredSkill)
	if !ok {
		return e.penalize(s, challenge, "", OutcomeNoSuitableChampion), OutcomeNoSuitableChampion
	}
	return e.attempt(s, challenge, champion)
}

// attempt resolves challenge with an already selected champion.
func (e *Engine) attempt(s *State, challenge catalog.Challenge, champion catalog.Champion) ([]Event, Outcome) {
	// Rare Earth always wins; the champion keeps its status.
	if challenge.IsBoss {
		return e.penalize(s, challenge, champion.Name, OutcomeRareEarthDefeat), OutcomeRareEarthDefeat
	}

	if champion.SkillLevel < challenge.RequiredSkill {
		panic(fmt.Errorf("%w: selected %q (skill %d) for challenge %d (required %d)",
			ErrInvariantViolation, champion.Name, champion.SkillLevel, challenge.Number, challenge.RequiredSkill))
	}

	resolved := Event{Type: EvtChallengeResolved, Champion: champion.Name, Challenge: challenge.Number}

	if !e.margin.Passes(champion, challenge) {
		s.Roster.Disqualify(champion.Name)
		resolved.Outcome = OutcomeLostOnSkill
		e.logOutcome(s, challenge, champion.Name, OutcomeLostOnSkill)
		return []Event{
			resolved,
			{Type: EvtChampionDisqualified, Champion: champion.Name, Challenge: challenge.Number},
		}, OutcomeLostOnSkill
	}

	if err := s.Treasury.Credit(challenge.Reward); err != nil {
		panic(fmt.Errorf("%w: reward %d: %w", ErrInvariantViolation, challenge.Reward, err))
	}
	resolved.Outcome = OutcomeWon
	e.logOutcome(s, challenge, champion.Name, OutcomeWon)
	return []Event{
		resolved,
		{Type: EvtTreasuryCredited, Champion: champion.Name, Challenge: challenge.Number, Amount: challenge.Reward},
	}, OutcomeWon
}

// penalize debits the forfeited reward. A debit the treasury refuses is
// waived rather than failing the attempt.
func (e *Engine) penalize(s *State, challenge catalog.Challenge, champion string, outcome Outcome) []Event {
	events := []Event{{Type: EvtChallengeResolved, Champion: champion, Challenge: challenge.Number, Outcome: outcome}}

	if err := s.Treasury.Debit(challenge.Reward); err != nil {
		e.log.Warn("penalty waived",
			zap.Int("challenge", challenge.Number),
			zap.Int("amount", challenge.Reward),
			zap.Int("balance", s.Treasury.Balance()),
			zap.Error(err))
		events = append(events, Event{Type: EvtPenaltyWaived, Champion: champion, Challenge: challenge.Number, Amount: challenge.Reward})
	} else {
		events = append(events, Event{Type: EvtTreasuryDebited, Champion: champion, Challenge: challenge.Number, Amount: challenge.Reward})
	}

	e.logOutcome(s, challenge, champion, outcome)
	return events
}

func (e *Engine) logOutcome(s *State, challenge catalog.Challenge, champion string, outcome Outcome) {
	e.log.Info("challenge resolved",
		zap.Int("challenge", challenge.Number),
		zap.String("champion", champion),
		zap.Stringer("outcome", outcome),
		zap.Int("balance", s.Treasury.Balance()))
}
