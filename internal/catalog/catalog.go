package catalog

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Champion is an immutable champion definition.
type Champion struct {
	Name       string `json:"name"`
	SkillLevel int    `json:"skill_level"`
	EntryFee   int    `json:"entry_fee"`
}

// Challenge is an immutable challenge definition. IsBoss marks the Rare Earth encounter.
type Challenge struct {
	Number        int  `json:"number"`
	RequiredSkill int  `json:"required_skill"`
	Reward        int  `json:"reward"`
	IsBoss        bool `json:"is_boss"`
}

// Catalog is the read-only set of champions and challenges for one game.
// Enumeration always follows declaration order.
type Catalog struct {
	champions  []Champion
	challenges []Challenge
	byName     map[string]int
	byNumber   map[int]int
}

func New(champions []Champion, challenges []Challenge) (*Catalog, error) {
	c := &Catalog{
		champions:  append([]Champion(nil), champions...),
		challenges: append([]Challenge(nil), challenges...),
		byName:     make(map[string]int, len(champions)),
		byNumber:   make(map[int]int, len(challenges)),
	}

	var err error
	for i, ch := range c.champions {
		if ch.Name == "" {
			err = multierr.Append(err, fmt.Errorf("champion #%d: empty name", i))
			continue
		}
		if _, dup := c.byName[ch.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("champion %q: duplicate name", ch.Name))
			continue
		}
		if ch.SkillLevel <= 0 {
			err = multierr.Append(err, fmt.Errorf("champion %q: skill level must be positive", ch.Name))
		}
		if ch.EntryFee < 0 {
			err = multierr.Append(err, fmt.Errorf("champion %q: entry fee must not be negative", ch.Name))
		}
		c.byName[ch.Name] = i
	}
	for i, ch := range c.challenges {
		if _, dup := c.byNumber[ch.Number]; dup {
			err = multierr.Append(err, fmt.Errorf("challenge %d: duplicate number", ch.Number))
			continue
		}
		if ch.RequiredSkill <= 0 {
			err = multierr.Append(err, fmt.Errorf("challenge %d: required skill must be positive", ch.Number))
		}
		if ch.Reward <= 0 {
			err = multierr.Append(err, fmt.Errorf("challenge %d: reward must be positive", ch.Number))
		}
		c.byNumber[ch.Number] = i
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return c, nil
}

// Champion looks up a champion by name.
func (c *Catalog) Champion(name string) (Champion, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Champion{}, false
	}
	return c.champions[i], true
}

// Challenge looks up a challenge by number.
func (c *Catalog) Challenge(number int) (Challenge, bool) {
	i, ok := c.byNumber[number]
	if !ok {
		return Challenge{}, false
	}
	return c.challenges[i], true
}

// Position returns the declaration index of a champion, or -1.
func (c *Catalog) Position(name string) int {
	i, ok := c.byName[name]
	if !ok {
		return -1
	}
	return i
}

func (c *Catalog) Champions() []Champion {
	return append([]Champion(nil), c.champions...)
}

func (c *Catalog) Challenges() []Challenge {
	return append([]Challenge(nil), c.challenges...)
}
