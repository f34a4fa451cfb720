// Package player keeps the in-memory player profile of a game session and
// reconciles it with engine results.
package player

import (
	"errors"
	"math"

	"github.com/korjavin/mathdungeonbot/dungeon"
	"github.com/korjavin/mathdungeonbot/models"
	"github.com/korjavin/mathdungeonbot/progression"
	"github.com/korjavin/mathdungeonbot/random"
)

var (
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrUnknownItem       = errors.New("unknown shop item")
	ErrUnknownEquipment  = errors.New("unknown equipment")
	ErrNotOwned          = errors.New("equipment not owned")
	ErrNoUses            = errors.New("no uses left")
)

const (
	// EquipmentDropChance is the chance of an equipment drop after a correct answer
	EquipmentDropChance = 0.3
	// HintXPCost is charged when a hint is used without a hint token
	HintXPCost = 5
)

// Profile is the player's standing across runs within one session
type Profile struct {
	XP            int
	Coins         int
	Health        int
	MaxHealth     int
	Streak        int
	TotalProblems int
	Accuracy      int
	Rank          string
	NextRankXP    int
	Inventory     Inventory
	Items         []models.Item
	Owned         map[string]bool
	Equipped      map[Slot]string
}

// NewProfile creates a fresh profile at full health
func NewProfile(ranks *progression.System) *Profile {
	p := &Profile{
		Health:    dungeon.DefaultMaxHealth,
		MaxHealth: dungeon.DefaultMaxHealth,
		Owned:     make(map[string]bool),
		Equipped:  make(map[Slot]string),
	}
	p.refreshRank(ranks)
	return p
}

func (p *Profile) bonus(slot Slot) int {
	id, ok := p.Equipped[slot]
	if !ok {
		return 0
	}
	e, ok := EquipmentByID(id)
	if !ok {
		return 0
	}
	return e.Bonus
}

// EffectiveMaxHealth is the base max health plus the health slot bonus
func (p *Profile) EffectiveMaxHealth() int {
	return dungeon.DefaultMaxHealth + p.bonus(SlotHealth)
}

// EffectiveTimeLimit adds the time slot bonus to an engine time limit
func (p *Profile) EffectiveTimeLimit(base int) int {
	return base + p.bonus(SlotTime)
}

// EffectiveCoins scales a coin reward by the coins slot percentage
func (p *Profile) EffectiveCoins(base int) int {
	return int(math.Floor(float64(base) * (1 + float64(p.bonus(SlotCoins))/100)))
}

// ApplyResult folds a submitted answer into the profile and returns the coins
// actually credited.
func (p *Profile) ApplyResult(result models.AnswerResult, ranks *progression.System) int {
	coins := p.EffectiveCoins(result.CoinsGained)

	p.XP += result.XPGained
	p.Coins += coins
	p.MaxHealth = p.EffectiveMaxHealth()
	p.Health = max(0, min(p.MaxHealth, p.Health+result.HealthChange))
	switch {
	case result.StreakBroken:
		p.Streak = 0
	case result.Correct:
		p.Streak++
	}
	p.recordAttempt(result.Correct)
	p.refreshRank(ranks)

	return coins
}

// ApplyTimeout folds a time-up submission into the profile: only the health
// loss and the streak reset count, never xp or coins.
func (p *Profile) ApplyTimeout(result models.AnswerResult) {
	p.Health = max(0, p.Health+result.HealthChange)
	p.Streak = 0
	p.recordAttempt(false)
}

func (p *Profile) recordAttempt(correct bool) {
	score := 0
	if correct {
		score = 100
	}
	total := p.TotalProblems + 1
	p.Accuracy = int(math.Round(float64(p.Accuracy*p.TotalProblems+score) / float64(total)))
	p.TotalProblems = total
}

func (p *Profile) refreshRank(ranks *progression.System) {
	p.Rank = ranks.CurrentRank(p.XP).Name
	if next, ok := ranks.NextRankRequirement(p.XP); ok {
		p.NextRankXP = next.XPNeeded + p.XP
	} else {
		p.NextRankXP = p.XP
	}
}

// Damage removes health, never below zero
func (p *Profile) Damage(amount int) {
	p.Health = max(0, p.Health-amount)
}

// Heal restores health up to the effective maximum and returns the amount healed
func (p *Profile) Heal(amount int) int {
	before := p.Health
	p.Health = min(p.EffectiveMaxHealth(), p.Health+amount)
	return p.Health - before
}

// RestoreHealth resets health to the effective maximum, used when a new run starts
func (p *Profile) RestoreHealth() {
	p.MaxHealth = p.EffectiveMaxHealth()
	p.Health = p.MaxHealth
}

// UseHint consumes a hint token, or charges HintXPCost xp when none is left.
// It reports whether a token was used.
func (p *Profile) UseHint(ranks *progression.System) bool {
	if p.Inventory.HintUses > 0 {
		p.Inventory.HintUses--
		return true
	}
	p.XP = max(0, p.XP-HintXPCost)
	p.refreshRank(ranks)
	return false
}

// UseCalculator consumes one calculator use
func (p *Profile) UseCalculator() error {
	if p.Inventory.CalculatorUses <= 0 {
		return ErrNoUses
	}
	p.Inventory.CalculatorUses--
	return nil
}

// UseFormula consumes one formula card use
func (p *Profile) UseFormula() error {
	if p.Inventory.FormulaUses <= 0 {
		return ErrNoUses
	}
	p.Inventory.FormulaUses--
	return nil
}

// Buy purchases a consumable bundle from the shop
func (p *Profile) Buy(itemID string) (ShopItem, error) {
	var item *ShopItem
	for i := range ShopItems {
		if ShopItems[i].ID == itemID {
			item = &ShopItems[i]
			break
		}
	}
	if item == nil {
		return ShopItem{}, ErrUnknownItem
	}
	if p.Coins < item.Price {
		return ShopItem{}, ErrInsufficientCoins
	}

	p.Coins -= item.Price
	switch item.ID {
	case "calc_uses":
		p.Inventory.CalculatorUses += item.Quantity
	case "formula_uses":
		p.Inventory.FormulaUses += item.Quantity
	case "hint_uses":
		p.Inventory.HintUses += item.Quantity
	}
	return *item, nil
}

// BuyItem purchases a priced item offered by a shop room
func (p *Profile) BuyItem(item models.Item) error {
	if p.Coins < item.Price {
		return ErrInsufficientCoins
	}
	p.Coins -= item.Price
	p.Collect(item)
	return nil
}

// Collect adds an item to the collection
func (p *Profile) Collect(item models.Item) {
	p.Items = append(p.Items, item)
}

// Equip puts an owned piece into its slot. Equipping a health piece clamps
// current health to the new maximum.
func (p *Profile) Equip(id string) (Equipment, error) {
	e, ok := EquipmentByID(id)
	if !ok {
		return Equipment{}, ErrUnknownEquipment
	}
	if !p.Owned[id] {
		return Equipment{}, ErrNotOwned
	}
	p.Equipped[e.Slot] = id
	if e.Slot == SlotHealth {
		p.MaxHealth = p.EffectiveMaxHealth()
		p.Health = min(p.Health, p.MaxHealth)
	}
	return e, nil
}

// Grant adds a piece to the owned set
func (p *Profile) Grant(id string) error {
	if _, ok := EquipmentByID(id); !ok {
		return ErrUnknownEquipment
	}
	p.Owned[id] = true
	return nil
}

// RollEquipmentDrop grants a random piece with EquipmentDropChance. The slot
// is chosen first, then the piece within it.
func (p *Profile) RollEquipmentDrop(src random.Source) (Equipment, bool) {
	if !random.Chance(src, EquipmentDropChance) {
		return Equipment{}, false
	}
	slot := random.Pick(src, Slots)
	e := random.Pick(src, EquipmentForSlot(slot))
	p.Owned[e.ID] = true
	return e, true
}

// Clone returns a copy of p that shares no mutable state with it
func (p *Profile) Clone() Profile {
	c := *p
	c.Items = append([]models.Item(nil), p.Items...)
	c.Owned = make(map[string]bool, len(p.Owned))
	for k, v := range p.Owned {
		c.Owned[k] = v
	}
	c.Equipped = make(map[Slot]string, len(p.Equipped))
	for k, v := range p.Equipped {
		c.Equipped[k] = v
	}
	return c
}

// ApplyReward credits the reward of a cleared problem room
func (p *Profile) ApplyReward(reward models.Reward, ranks *progression.System) {
	switch r := reward.(type) {
	case models.XPReward:
		p.XP += r.Amount
		p.refreshRank(ranks)
	case models.CoinReward:
		p.Coins += p.EffectiveCoins(r.Amount)
	case models.HealthReward:
		p.Heal(r.Amount)
	case models.ItemReward:
		p.Collect(r.Item)
	}
}
