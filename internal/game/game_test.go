package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DoyleJ11/vizier-backend/internal/catalog"
	"github.com/DoyleJ11/vizier-backend/internal/engine"
)

func ariaCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]catalog.Champion{
			{Name: "Aria", SkillLevel: 5, EntryFee: 10},
			{Name: "Brakka", SkillLevel: 3, EntryFee: 7},
		},
		[]catalog.Challenge{
			{Number: 1, RequiredSkill: 3, Reward: 20},
			{Number: 2, RequiredSkill: 8, Reward: 15},
			{Number: 3, RequiredSkill: 2, Reward: 30, IsBoss: true},
		},
	)
	require.NoError(t, err)
	return c
}

func newGame(t *testing.T, treasury int, strict bool) *Game {
	t.Helper()
	return New(ariaCatalog(t), Options{
		StartingTreasury: treasury,
		StrictTreasury:   strict,
		Logger:           zaptest.NewLogger(t),
	})
}

func TestAriaScenario(t *testing.T) {
	g := newGame(t, 10, false)

	require.True(t, g.AddChampion("Aria"))
	assert.Equal(t, 0, g.ViewTreasury())

	assert.Equal(t, 0, g.SelectChallenge(1))
	assert.Equal(t, 20, g.ViewTreasury())

	require.True(t, g.RetireChampion("Aria"))
	assert.Equal(t, 25, g.ViewTreasury())
}

func TestAddChampion_TwiceIsRejectedWithoutSideEffects(t *testing.T) {
	g := newGame(t, 100, false)
	require.True(t, g.AddChampion("Aria"))
	balance, team := g.ViewTreasury(), g.ViewTeamState()

	assert.False(t, g.AddChampion("Aria"))
	assert.Equal(t, balance, g.ViewTreasury())
	assert.Equal(t, team, g.ViewTeamState())
}

func TestAddChampion_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		treasury int
		champion string
	}{
		{name: "unknown", treasury: 100, champion: "Nobody"},
		{name: "insufficient funds", treasury: 9, champion: "Aria"},
		{name: "insufficient funds even when overdraw is allowed", treasury: 0, champion: "Brakka"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGame(t, tc.treasury, false)
			assert.False(t, g.AddChampion(tc.champion))
			assert.Equal(t, tc.treasury, g.ViewTreasury())
			assert.Empty(t, g.ViewTeamState())
			assert.Empty(t, g.History())
		})
	}
}

func TestRetireThenAdd_RestoresActive(t *testing.T) {
	g := newGame(t, 100, false)
	require.True(t, g.AddChampion("Brakka"))
	require.Equal(t, 1, g.SelectChallenge(1)) // 3 vs 3 fails the margin
	assert.Contains(t, g.GetChampionDetails("Brakka"), "status=Disqualified")

	before := g.ViewTreasury()
	require.True(t, g.RetireChampion("Brakka"))
	require.True(t, g.AddChampion("Brakka"))

	assert.Equal(t, before-7+7/2, g.ViewTreasury())
	assert.Equal(t, `name="Brakka" skill=3 fee=7 status=Active`, g.GetChampionDetails("Brakka"))
}

func TestRetireChampion_NotOnRoster(t *testing.T) {
	g := newGame(t, 100, false)
	assert.False(t, g.RetireChampion("Aria"))
	assert.False(t, g.RetireChampion("Nobody"))
	assert.Equal(t, 100, g.ViewTreasury())
}

func TestSelectChallenge_UnknownNumberNeverMutates(t *testing.T) {
	g := newGame(t, 100, false)
	require.True(t, g.AddChampion("Aria"))
	require.Equal(t, 2, g.SelectChallenge(2))
	state := g.ViewGameState()

	for _, n := range []int{-5, 0, 4, 99} {
		assert.Equal(t, -1, g.SelectChallenge(n))
		assert.Equal(t, state, g.ViewGameState())
	}
}

func TestSelectChallenge_BossAndNoSuitable(t *testing.T) {
	g := newGame(t, 100, false)
	require.True(t, g.AddChampion("Aria"))

	assert.Equal(t, 3, g.SelectChallenge(3))
	assert.Equal(t, 60, g.ViewTreasury())
	assert.Contains(t, g.ViewTeamState(), "status=Active")

	assert.Equal(t, 2, g.SelectChallenge(2))
	assert.Equal(t, 45, g.ViewTreasury())
}

func TestTreasuryPolicies_AtTheBoundary(t *testing.T) {
	t.Run("negative allowed", func(t *testing.T) {
		g := newGame(t, 10, false)
		assert.Equal(t, 2, g.SelectChallenge(2))
		assert.Equal(t, -5, g.ViewTreasury())
		assert.True(t, g.Defeated())
	})
	t.Run("strict refuses overdraw", func(t *testing.T) {
		g := newGame(t, 10, true)
		assert.Equal(t, 2, g.SelectChallenge(2))
		assert.Equal(t, 10, g.ViewTreasury())
		assert.True(t, engine.ContainsEvent(g.History(), engine.EvtPenaltyWaived))
		assert.False(t, g.Defeated())
	})
	t.Run("strict allows exactly zero", func(t *testing.T) {
		g := newGame(t, 15, true)
		assert.Equal(t, 2, g.SelectChallenge(2))
		assert.Equal(t, 0, g.ViewTreasury())
		assert.True(t, g.Defeated())
	})
}

func TestBalanceMatchesLedger(t *testing.T) {
	g := newGame(t, 50, false)
	g.AddChampion("Aria")
	g.AddChampion("Brakka")
	g.AddChampion("Aria")
	g.SelectChallenge(1)
	g.SelectChallenge(1)
	g.SelectChallenge(2)
	g.SelectChallenge(3)
	g.SelectChallenge(9)
	g.RetireChampion("Brakka")
	g.RetireChampion("Brakka")

	credits, debits := engine.Ledger(g.History())
	assert.Equal(t, g.InitialTreasury()+credits-debits, g.ViewTreasury())
	assert.True(t, g.Replay())
}

func TestListings(t *testing.T) {
	g := newGame(t, 100, false)
	require.True(t, g.AddChampion("Aria"))

	assert.Equal(t, []string{`name="Brakka" skill=3 fee=7 status=Available`}, g.ListAvailableChampions())
	assert.Equal(t, []string{
		"number=1 required=3 reward=20 boss=false",
		"number=2 required=8 reward=15 boss=false",
		"number=3 required=2 reward=30 boss=true",
	}, g.ListChallenges())

	assert.Equal(t, `name="Aria" skill=5 fee=10 status=Active`, g.GetChampionDetails("Aria"))
	assert.Equal(t, `name="Brakka" skill=3 fee=7 status=Available`, g.GetChampionDetails("Brakka"))
	assert.Equal(t, ChampionNotFound, g.GetChampionDetails("Nobody"))

	// listings are snapshots
	list := g.ListAvailableChampions()
	list[0] = "changed"
	assert.NotEqual(t, "changed", g.ListAvailableChampions()[0])
}

func TestViewGameState(t *testing.T) {
	g := newGame(t, 100, false)
	require.True(t, g.AddChampion("Aria"))

	want := "treasury=90\n" +
		"defeated=false\n" +
		"team:\n" +
		"  name=\"Aria\" skill=5 fee=10 status=Active\n" +
		"available:\n" +
		"  name=\"Brakka\" skill=3 fee=7 status=Available\n" +
		"challenges:\n" +
		"  number=1 required=3 reward=20 boss=false\n" +
		"  number=2 required=8 reward=15 boss=false\n" +
		"  number=3 required=2 reward=30 boss=true"
	assert.Equal(t, want, g.ViewGameState())
}

func TestIndependentGamesDoNotShareState(t *testing.T) {
	cat := ariaCatalog(t)
	a := New(cat, Options{StartingTreasury: 100})
	b := New(cat, Options{StartingTreasury: 100})

	require.True(t, a.AddChampion("Aria"))
	assert.Equal(t, 90, a.ViewTreasury())
	assert.Equal(t, 100, b.ViewTreasury())
	assert.Empty(t, b.ViewTeamState())
}

func TestZeroOptionsAllowOverdraw(t *testing.T) {
	g := New(ariaCatalog(t), Options{})
	assert.Equal(t, 2, g.SelectChallenge(2))
	assert.Equal(t, -15, g.ViewTreasury())
}
