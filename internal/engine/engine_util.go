package engine

import (
	"fmt"

	"github.com/DoyleJ11/vizier-backend/internal/catalog"
)

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// Ledger sums every credit and debit recorded in events.
func Ledger(events []Event) (credits, debits int) {
	for _, event := range events {
		switch event.Type {
		case EvtChampionRetired, EvtTreasuryCredited:
			credits += event.Amount
		case EvtChampionRecruited, EvtTreasuryDebited:
			debits += event.Amount
		}
	}
	return credits, debits
}

// FormatChampion renders name, skill, fee and status in that fixed order.
func FormatChampion(c catalog.Champion, status string) string {
	return fmt.Sprintf("name=%q skill=%d fee=%d status=%s", c.Name, c.SkillLevel, c.EntryFee, status)
}

// FormatChallenge renders number, required skill, reward and boss flag in that fixed order.
func FormatChallenge(c catalog.Challenge) string {
	return fmt.Sprintf("number=%d required=%d reward=%d boss=%t", c.Number, c.RequiredSkill, c.Reward, c.IsBoss)
}
