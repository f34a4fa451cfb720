package player

import "github.com/korjavin/mathdungeonbot/models"

// Slot is an equipment slot
type Slot string

const (
	SlotHealth Slot = "health"
	SlotTime   Slot = "time"
	SlotCoins  Slot = "coins"
)

// Slots lists the equipment slots in display order
var Slots = []Slot{SlotHealth, SlotTime, SlotCoins}

// Equipment is a passive bonus piece. Bonus is max health for the health
// slot, seconds for the time slot and a coin percentage for the coins slot.
type Equipment struct {
	ID          string
	Name        string
	Slot        Slot
	Bonus       int
	Rarity      models.Rarity
	Description string
}

var equipmentCatalog = []Equipment{
	{ID: "health1", Name: "Iron Heart", Slot: SlotHealth, Bonus: 10, Rarity: models.RarityCommon, Description: "+10 Max Health"},
	{ID: "health2", Name: "Steel Heart", Slot: SlotHealth, Bonus: 20, Rarity: models.RarityUncommon, Description: "+20 Max Health"},
	{ID: "health3", Name: "Diamond Heart", Slot: SlotHealth, Bonus: 30, Rarity: models.RarityRare, Description: "+30 Max Health"},
	{ID: "time1", Name: "Quick Thinking", Slot: SlotTime, Bonus: 10, Rarity: models.RarityCommon, Description: "+10 Seconds"},
	{ID: "time2", Name: "Time Dilation", Slot: SlotTime, Bonus: 20, Rarity: models.RarityUncommon, Description: "+20 Seconds"},
	{ID: "time3", Name: "Temporal Mastery", Slot: SlotTime, Bonus: 30, Rarity: models.RarityRare, Description: "+30 Seconds"},
	{ID: "coins1", Name: "Lucky Penny", Slot: SlotCoins, Bonus: 25, Rarity: models.RarityCommon, Description: "+25% Coins"},
	{ID: "coins2", Name: "Golden Touch", Slot: SlotCoins, Bonus: 50, Rarity: models.RarityUncommon, Description: "+50% Coins"},
	{ID: "coins3", Name: "Midas Blessing", Slot: SlotCoins, Bonus: 100, Rarity: models.RarityRare, Description: "+100% Coins"},
}

// EquipmentByID looks up a catalog piece
func EquipmentByID(id string) (Equipment, bool) {
	for _, e := range equipmentCatalog {
		if e.ID == id {
			return e, true
		}
	}
	return Equipment{}, false
}

// EquipmentForSlot returns the catalog pieces of a slot
func EquipmentForSlot(slot Slot) []Equipment {
	var out []Equipment
	for _, e := range equipmentCatalog {
		if e.Slot == slot {
			out = append(out, e)
		}
	}
	return out
}

// ShopItem is a consumable bundle sold for coins
type ShopItem struct {
	ID          string
	Name        string
	Price       int
	Quantity    int
	Description string
}

// ShopItems is the consumable shop
var ShopItems = []ShopItem{
	{ID: "calc_uses", Name: "Calculator Uses", Price: 50, Quantity: 5, Description: "5 uses of advanced calculator"},
	{ID: "formula_uses", Name: "Formula Cards", Price: 75, Quantity: 3, Description: "3 uses of formula reference"},
	{ID: "hint_uses", Name: "Hint Tokens", Price: 100, Quantity: 2, Description: "2 free hints without XP penalty"},
}

// Inventory counts consumable uses
type Inventory struct {
	CalculatorUses int
	FormulaUses    int
	HintUses       int
}
