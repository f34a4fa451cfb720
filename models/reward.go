package models

// Unlimited marks an item with unbounded uses or a rank without an upper bound
const Unlimited = -1

// Rarity of an item
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Item is a tool the player can collect or buy
type Item struct {
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
	Uses   int    `json:"uses"`
	Price  int    `json:"price,omitempty"`
}

// UnlimitedUses reports whether the item never runs out
func (i Item) UnlimitedUses() bool {
	return i.Uses == Unlimited
}

// RewardType tags a Reward variant
type RewardType string

const (
	RewardXP     RewardType = "xp"
	RewardCoins  RewardType = "coins"
	RewardHealth RewardType = "health"
	RewardItem   RewardType = "item"
)

// Reward is offered by a problem room
type Reward interface {
	RewardType() RewardType
}

// XPReward grants experience
type XPReward struct {
	Amount int `json:"amount"`
}

// CoinReward grants coins
type CoinReward struct {
	Amount int `json:"amount"`
}

// HealthReward restores health
type HealthReward struct {
	Amount int `json:"amount"`
}

// ItemReward grants an item
type ItemReward struct {
	Item Item `json:"item"`
}

func (XPReward) RewardType() RewardType     { return RewardXP }
func (CoinReward) RewardType() RewardType   { return RewardCoins }
func (HealthReward) RewardType() RewardType { return RewardHealth }
func (ItemReward) RewardType() RewardType   { return RewardItem }

// TreasureType tags a Treasure variant
type TreasureType string

const (
	TreasureRareItem    TreasureType = "rare_item"
	TreasureLargeCoins  TreasureType = "large_coins"
	TreasureFormulaCard TreasureType = "formula_card"
)

// Treasure is found in treasure rooms
type Treasure interface {
	TreasureType() TreasureType
}

// RareItemTreasure holds a rare or legendary item
type RareItemTreasure struct {
	Item Item `json:"item"`
}

// CoinTreasure holds a large coin stash
type CoinTreasure struct {
	Amount int `json:"amount"`
}

// FormulaCardTreasure holds a named formula card
type FormulaCardTreasure struct {
	Formula string `json:"formula"`
}

func (RareItemTreasure) TreasureType() TreasureType    { return TreasureRareItem }
func (CoinTreasure) TreasureType() TreasureType        { return TreasureLargeCoins }
func (FormulaCardTreasure) TreasureType() TreasureType { return TreasureFormulaCard }
