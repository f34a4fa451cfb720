package dungeon

import (
	"github.com/korjavin/mathdungeonbot/models"
	"github.com/korjavin/mathdungeonbot/random"
)

var roomWeights = []struct {
	room   models.RoomType
	weight float64
}{
	{models.RoomProblem, 0.60},
	{models.RoomTreasure, 0.15},
	{models.RoomShop, 0.10},
	{models.RoomRest, 0.10},
	{models.RoomTrap, 0.05},
}

var basePrices = map[models.Rarity]int{
	models.RarityCommon:    20,
	models.RarityUncommon:  50,
	models.RarityRare:      100,
	models.RarityLegendary: 200,
}

var commonItems = []models.Item{
	{Name: "Basic Calculator", Rarity: models.RarityCommon, Uses: models.Unlimited},
	{Name: "Scientific Calculator", Rarity: models.RarityUncommon, Uses: models.Unlimited},
	{Name: "Hint Scroll", Rarity: models.RarityCommon, Uses: 3},
	{Name: "Time Extension", Rarity: models.RarityUncommon, Uses: 1},
	{Name: "Health Potion", Rarity: models.RarityCommon, Uses: 1},
}

var rareItems = []models.Item{
	{Name: "Graphing Calculator", Rarity: models.RarityRare, Uses: models.Unlimited},
	{Name: "Theorem Scroll", Rarity: models.RarityRare, Uses: 1},
	{Name: "Perfect Solution Crystal", Rarity: models.RarityLegendary, Uses: 1},
}

var formulaCards = []string{
	"Pythagorean Theorem",
	"Quadratic Formula",
	"Distance Formula",
	"Area of Circle",
	"Derivative Power Rule",
	"Integration by Parts",
}

const (
	treasureDescription = "You found a treasure chest!"
	shopDescription     = "A mysterious merchant offers you tools..."
	restDescription     = "A peaceful study area where you can rest and recover."
	trapDescription     = "A tricky problem appears suddenly!"
)

// GenerateRoom draws a room type by weight and builds it. A draw left
// unclassified by rounding falls back to a problem room.
func (e *Engine) GenerateRoom() (models.Room, error) {
	u := e.src.Float64()
	cumulative := 0.0
	for _, w := range roomWeights {
		cumulative += w.weight
		if u <= cumulative {
			return e.CreateRoom(w.room)
		}
	}
	return e.CreateRoom(models.RoomProblem)
}

// CreateRoom builds a room of the given type on the current level. The error
// is the problem generator's, for problem and trap rooms.
func (e *Engine) CreateRoom(roomType models.RoomType) (models.Room, error) {
	room := models.Room{Type: roomType, Level: e.state.DungeonLevel}

	switch roomType {
	case models.RoomProblem:
		problem, err := e.GenerateProblem()
		if err != nil {
			return room, err
		}
		room.Payload = models.ProblemRoom{
			Problem:   problem,
			Reward:    e.GenerateReward(),
			TimeLimit: e.TimeLimit(),
		}
	case models.RoomTreasure:
		room.Payload = models.TreasureRoom{
			Treasure:    e.GenerateTreasure(),
			Description: treasureDescription,
		}
	case models.RoomShop:
		room.Payload = models.ShopRoom{
			Items:       e.GenerateShopItems(),
			Description: shopDescription,
		}
	case models.RoomRest:
		room.Payload = models.RestRoom{
			HealAmount:  random.Between(e.src, 20, 49),
			Description: restDescription,
		}
	case models.RoomTrap:
		problem, err := e.GenerateProblem()
		if err != nil {
			return room, err
		}
		room.Payload = models.TrapRoom{
			Problem:     problem,
			Penalty:     random.Between(e.src, 10, 29),
			Description: trapDescription,
		}
	}

	return room, nil
}

// GenerateReward picks one reward variant uniformly
func (e *Engine) GenerateReward() models.Reward {
	switch random.Intn(e.src, 4) {
	case 0:
		return models.XPReward{Amount: random.Between(e.src, 25, 74)}
	case 1:
		return models.CoinReward{Amount: random.Between(e.src, 10, 29)}
	case 2:
		return models.HealthReward{Amount: random.Between(e.src, 15, 39)}
	default:
		return models.ItemReward{Item: e.GenerateRandomItem()}
	}
}

// GenerateTreasure picks one treasure variant uniformly
func (e *Engine) GenerateTreasure() models.Treasure {
	switch random.Intn(e.src, 3) {
	case 0:
		return models.RareItemTreasure{Item: e.GenerateRareItem()}
	case 1:
		return models.CoinTreasure{Amount: random.Between(e.src, 50, 149)}
	default:
		return models.FormulaCardTreasure{Formula: e.GenerateFormulaCard()}
	}
}

// GenerateRandomItem picks a common or uncommon tool
func (e *Engine) GenerateRandomItem() models.Item {
	return random.Pick(e.src, commonItems)
}

// GenerateRareItem picks a rare or legendary tool
func (e *Engine) GenerateRareItem() models.Item {
	return random.Pick(e.src, rareItems)
}

// GenerateFormulaCard picks a formula card name
func (e *Engine) GenerateFormulaCard() string {
	return random.Pick(e.src, formulaCards)
}

// GenerateShopItems offers 2 to 5 priced items
func (e *Engine) GenerateShopItems() []models.Item {
	n := random.Between(e.src, 2, 5)
	items := make([]models.Item, 0, n)
	for i := 0; i < n; i++ {
		item := e.GenerateRandomItem()
		item.Price = e.ItemPrice(item)
		items = append(items, item)
	}
	return items
}

// ItemPrice is the rarity base price plus up to 19 coins of jitter
func (e *Engine) ItemPrice(item models.Item) int {
	return basePrices[item.Rarity] + random.Intn(e.src, 20)
}
