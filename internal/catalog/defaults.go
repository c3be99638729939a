package catalog

// RareEarthNumber is the boss challenge in the built-in catalog.
const RareEarthNumber = 10

func DefaultChampions() []Champion {
	return []Champion{
		{Name: "Aria", SkillLevel: 5, EntryFee: 100},
		{Name: "Brakka", SkillLevel: 3, EntryFee: 50},
		{Name: "Cyrene", SkillLevel: 7, EntryFee: 220},
		{Name: "Dagoth", SkillLevel: 4, EntryFee: 80},
		{Name: "Elowen", SkillLevel: 9, EntryFee: 400},
		{Name: "Fennick", SkillLevel: 2, EntryFee: 30},
		{Name: "Grimsby", SkillLevel: 6, EntryFee: 150},
		{Name: "Halcyon", SkillLevel: 8, EntryFee: 300},
	}
}

func DefaultChallenges() []Challenge {
	return []Challenge{
		{Number: 1, RequiredSkill: 2, Reward: 40},
		{Number: 2, RequiredSkill: 3, Reward: 60},
		{Number: 3, RequiredSkill: 4, Reward: 90},
		{Number: 4, RequiredSkill: 5, Reward: 120},
		{Number: 5, RequiredSkill: 5, Reward: 150},
		{Number: 6, RequiredSkill: 6, Reward: 200},
		{Number: 7, RequiredSkill: 7, Reward: 260},
		{Number: 8, RequiredSkill: 8, Reward: 320},
		{Number: 9, RequiredSkill: 9, Reward: 400},
		{Number: RareEarthNumber, RequiredSkill: 6, Reward: 500, IsBoss: true},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultChampions(), DefaultChallenges())
	if err != nil {
		panic(err)
	}
	return c
}
