package models

// Category is a family of problem templates
type Category string

const (
	CategoryArithmetic Category = "arithmetic"
	CategoryAlgebra    Category = "algebra"
	CategoryGeometry   Category = "geometry"
	CategoryCalculus   Category = "calculus"
)

// Categories lists every known category in catalog order
var Categories = []Category{CategoryArithmetic, CategoryAlgebra, CategoryGeometry, CategoryCalculus}

// DisplayName returns the human readable name of the category
func (c Category) DisplayName() string {
	switch c {
	case CategoryArithmetic:
		return "Arithmetic"
	case CategoryAlgebra:
		return "Algebra"
	case CategoryGeometry:
		return "Geometry"
	case CategoryCalculus:
		return "Calculus"
	default:
		return string(c)
	}
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Problem is a generated math question with its canonical answer
type Problem struct {
	Question   string         `json:"question"`
	Answer     string         `json:"answer"`
	Category   Category       `json:"category"`
	Difficulty int            `json:"difficulty"`
	Hint       string         `json:"hint"`
	Variables  map[string]int `json:"variables"`
}
