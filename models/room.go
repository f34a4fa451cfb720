package models

// RoomType tags the payload of a Room
type RoomType string

const (
	RoomProblem  RoomType = "problem"
	RoomTreasure RoomType = "treasure"
	RoomShop     RoomType = "shop"
	RoomRest     RoomType = "rest"
	RoomTrap     RoomType = "trap"
)

// Room is a single dungeon room; Payload carries the variant for Type
type Room struct {
	Type    RoomType    `json:"type"`
	Level   int         `json:"level"`
	Cleared bool        `json:"cleared"`
	Payload RoomPayload `json:"payload"`
}

// RoomPayload is implemented by each room variant
type RoomPayload interface {
	RoomType() RoomType
}

// ProblemRoom asks a question against the clock
type ProblemRoom struct {
	Problem   *Problem `json:"problem"`
	Reward    Reward   `json:"reward"`
	TimeLimit int      `json:"timeLimit"`
}

// TreasureRoom holds a treasure chest
type TreasureRoom struct {
	Treasure    Treasure `json:"treasure"`
	Description string   `json:"description"`
}

// ShopRoom offers priced items
type ShopRoom struct {
	Items       []Item `json:"items"`
	Description string `json:"description"`
}

// RestRoom heals the player
type RestRoom struct {
	HealAmount  int    `json:"healAmount"`
	Description string `json:"description"`
}

// TrapRoom asks a question with an extra penalty on failure
type TrapRoom struct {
	Problem     *Problem `json:"problem"`
	Penalty     int      `json:"penalty"`
	Description string   `json:"description"`
}

func (ProblemRoom) RoomType() RoomType  { return RoomProblem }
func (TreasureRoom) RoomType() RoomType { return RoomTreasure }
func (ShopRoom) RoomType() RoomType     { return RoomShop }
func (RestRoom) RoomType() RoomType     { return RoomRest }
func (TrapRoom) RoomType() RoomType     { return RoomTrap }

// Problem returns the problem carried by problem and trap rooms, or nil
func (r Room) Problem() *Problem {
	switch p := r.Payload.(type) {
	case ProblemRoom:
		return p.Problem
	case TrapRoom:
		return p.Problem
	default:
		return nil
	}
}
