package engine

import "github.com/DoyleJ11/vizier-backend/internal/catalog"

const DefaultMarginPercent = 125

// Margin decides whether a champion that meets a challenge's required skill
// actually wins it. A failed check disqualifies the champion.
type Margin interface {
	Passes(champion catalog.Champion, challenge catalog.Challenge) bool
}

// FactorMargin requires skill to reach Percent% of the required skill.
type FactorMargin struct {
	Percent int
}

func (m FactorMargin) Passes(champion catalog.Champion, challenge catalog.Challenge) bool {
	return champion.SkillLevel*100 >= challenge.RequiredSkill*m.Percent
}

type MarginFunc func(champion catalog.Champion, challenge catalog.Challenge) bool

func (f MarginFunc) Passes(champion catalog.Champion, challenge catalog.Challenge) bool {
	return f(champion, challenge)
}
