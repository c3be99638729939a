package engine

import (
	"strings"

	"github.com/DoyleJ11/vizier-backend/internal/catalog"
)

type Entry struct {
	Champion catalog.Champion
	Status   Status
}

// Roster is the Vizier's team. It knows nothing about money; callers
// handle fees and refunds.
type Roster struct {
	catalog *catalog.Catalog
	entries []Entry // insertion order
	index   map[string]int
}

func NewRoster(cat *catalog.Catalog) *Roster {
	return &Roster{catalog: cat, index: map[string]int{}}
}

func (r *Roster) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Status reports the roster status of name, if it is on the roster.
func (r *Roster) Status(name string) (Status, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.entries[i].Status, true
}

func (r *Roster) Recruit(name string) error {
	champion, ok := r.catalog.Champion(name)
	if !ok {
		return ErrUnknownChampion
	}
	if r.Has(name) {
		return ErrAlreadyRecruited
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Champion: champion, Status: StatusActive})
	return nil
}

// Retire removes name and returns the refund: half the entry fee, rounded down.
func (r *Roster) Retire(name string) (int, error) {
	i, ok := r.index[name]
	if !ok {
		return 0, ErrNotOnRoster
	}
	refund := r.entries[i].Champion.EntryFee / 2

	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, name)
	for j := i; j < len(r.entries); j++ {
		r.index[r.entries[j].Champion.Name] = j
	}
	return refund, nil
}

func (r *Roster) Disqualify(name string) {
	if i, ok := r.index[name]; ok {
		r.entries[i].Status = StatusDisqualified
	}
}

// AvailableForChallenge picks the Active champion with the lowest skill that
// still meets required. Ties go to the champion declared first in the catalog.
func (r *Roster) AvailableForChallenge(required int) (catalog.Champion, bool) {
	var (
		best  catalog.Champion
		found bool
	)
	for _, e := range r.entries {
		if e.Status != StatusActive || e.Champion.SkillLevel < required {
			continue
		}
		if !found ||
			e.Champion.SkillLevel < best.SkillLevel ||
			(e.Champion.SkillLevel == best.SkillLevel && r.catalog.Position(e.Champion.Name) < r.catalog.Position(best.Name)) {
			best, found = e.Champion, true
		}
	}
	return best, found
}

func (r *Roster) ActiveCount() int {
	n := 0
	for _, e := range r.entries {
		if e.Status == StatusActive {
			n++
		}
	}
	return n
}

// AvailableToRecruit lists catalog champions not currently on the roster, in catalog order.
func (r *Roster) AvailableToRecruit() []catalog.Champion {
	var out []catalog.Champion
	for _, c := range r.catalog.Champions() {
		if !r.Has(c.Name) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Roster) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// TeamState renders one line per entry, in insertion order.
func (r *Roster) TeamState() string {
	lines := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		lines = append(lines, FormatChampion(e.Champion, string(e.Status)))
	}
	return strings.Join(lines, "\n")
}
