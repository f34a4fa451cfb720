package models

// Tier is the dungeon difficulty tier
type Tier string

const (
	TierNovice     Tier = "novice"
	TierApprentice Tier = "apprentice"
	TierScholar    Tier = "scholar"
	TierExpert     Tier = "expert"
	TierMaster     Tier = "master"
)

// Tiers lists the tiers in escalation order
var Tiers = []Tier{TierNovice, TierApprentice, TierScholar, TierExpert, TierMaster}

// Next returns the tier after t, or t itself at the top
func (t Tier) Next() Tier {
	for i, tier := range Tiers {
		if tier == t && i < len(Tiers)-1 {
			return Tiers[i+1]
		}
	}
	return t
}

// EngineState is the state of one dungeon run
type EngineState struct {
	DungeonLevel   int      `json:"dungeonLevel"`
	PlayerHealth   int      `json:"playerHealth"`
	MaxHealth      int      `json:"maxHealth"`
	CurrentRoom    int      `json:"currentRoom"`
	RoomsCleared   int      `json:"roomsCleared"`
	ItemsCollected []Item   `json:"itemsCollected"`
	ActiveEffects  []string `json:"activeEffects"`
	Difficulty     Tier     `json:"difficulty"`
}

// Clone returns a deep copy of s
func (s EngineState) Clone() EngineState {
	c := s
	c.ItemsCollected = append([]Item(nil), s.ItemsCollected...)
	c.ActiveEffects = append([]string(nil), s.ActiveEffects...)
	return c
}

// AnswerResult is the outcome of one submitted answer
type AnswerResult struct {
	Correct      bool `json:"correct"`
	TimeBonus    int  `json:"timeBonus"`
	XPGained     int  `json:"xpGained"`
	CoinsGained  int  `json:"coinsGained"`
	HealthChange int  `json:"healthChange"`
	StreakBroken bool `json:"streakBroken"`
}
