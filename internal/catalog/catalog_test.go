package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LookupAndOrder(t *testing.T) {
	c, err := New(
		[]Champion{{Name: "Aria", SkillLevel: 5, EntryFee: 10}, {Name: "Brakka", SkillLevel: 3, EntryFee: 4}},
		[]Challenge{{Number: 2, RequiredSkill: 3, Reward: 20}, {Number: 1, RequiredSkill: 1, Reward: 5, IsBoss: true}},
	)
	require.NoError(t, err)

	aria, ok := c.Champion("Aria")
	require.True(t, ok)
	assert.Equal(t, 5, aria.SkillLevel)

	_, ok = c.Champion("Nobody")
	assert.False(t, ok)

	ch, ok := c.Challenge(1)
	require.True(t, ok)
	assert.True(t, ch.IsBoss)

	_, ok = c.Challenge(99)
	assert.False(t, ok)

	assert.Equal(t, 1, c.Position("Brakka"))
	assert.Equal(t, -1, c.Position("Nobody"))

	// declaration order, not number order
	chs := c.Challenges()
	require.Len(t, chs, 2)
	assert.Equal(t, 2, chs[0].Number)
	assert.Equal(t, 1, chs[1].Number)
}

func TestChampions_ReturnsSnapshot(t *testing.T) {
	c := Default()
	list := c.Champions()
	list[0].Name = "mutated"

	first := c.Champions()[0]
	assert.NotEqual(t, "mutated", first.Name)
}

func TestNew_ValidationReportsEveryProblem(t *testing.T) {
	cases := []struct {
		name       string
		champions  []Champion
		challenges []Challenge
		wantParts  []string
	}{
		{
			name:      "duplicate champion and bad skill",
			champions: []Champion{{Name: "A", SkillLevel: 1}, {Name: "A", SkillLevel: 2}, {Name: "B", SkillLevel: 0}},
			wantParts: []string{`champion "A": duplicate name`, `champion "B": skill level must be positive`},
		},
		{
			name:       "negative fee and zero reward",
			champions:  []Champion{{Name: "A", SkillLevel: 1, EntryFee: -1}},
			challenges: []Challenge{{Number: 1, RequiredSkill: 1, Reward: 0}},
			wantParts:  []string{"entry fee must not be negative", "challenge 1: reward must be positive"},
		},
		{
			name:       "duplicate challenge",
			challenges: []Challenge{{Number: 3, RequiredSkill: 1, Reward: 1}, {Number: 3, RequiredSkill: 2, Reward: 2}},
			wantParts:  []string{"challenge 3: duplicate number"},
		},
		{
			name:      "empty name",
			champions: []Champion{{SkillLevel: 1}},
			wantParts: []string{"empty name"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.champions, tc.challenges)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
			for _, part := range tc.wantParts {
				assert.Contains(t, err.Error(), part)
			}
		})
	}
}

func TestDefault_HasRareEarth(t *testing.T) {
	c := Default()
	boss, ok := c.Challenge(RareEarthNumber)
	require.True(t, ok)
	assert.True(t, boss.IsBoss)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	doc := `{
		"champions": [{"name": "Aria", "skill_level": 5, "entry_fee": 10}],
		"challenges": [{"number": 1, "required_skill": 3, "reward": 20, "is_boss": false}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)

	aria, ok := c.Champion("Aria")
	require.True(t, ok)
	assert.Equal(t, Champion{Name: "Aria", SkillLevel: 5, EntryFee: 10}, aria)

	ch, ok := c.Challenge(1)
	require.True(t, ok)
	assert.Equal(t, 20, ch.Reward)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "read catalog")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "decode catalog")
}
