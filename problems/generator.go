// Package problems generates math problems from a fixed template catalog.
package problems

import (
	"errors"

	"github.com/korjavin/mathdungeonbot/models"
	"github.com/korjavin/mathdungeonbot/random"
)

// ErrUnknownCategory indicates a category with no registered templates.
var ErrUnknownCategory = errors.New("unknown problem category")

// ErrNoMatchingTemplate indicates no template of the category has the requested difficulty.
var ErrNoMatchingTemplate = errors.New("no template matches the requested difficulty")

// AnyDifficulty disables the difficulty filter in Generate.
const AnyDifficulty = 0

var hints = map[models.Category]string{
	models.CategoryArithmetic: "Break down the problem step by step.",
	models.CategoryAlgebra:    "Isolate the variable by performing the same operation on both sides.",
	models.CategoryGeometry:   "Remember the relevant formulas for area, perimeter, and the Pythagorean theorem.",
	models.CategoryCalculus:   "Apply the power rule or fundamental theorem of calculus.",
}

const defaultHint = "Think step by step and use the appropriate mathematical principles."

var formulas = map[models.Category][]string{
	models.CategoryArithmetic: {
		"a/b + c/d = (ad + bc)/bd",
		"a/b × c/d = ac/bd",
	},
	models.CategoryAlgebra: {
		"ax + b = c  ⇒  x = (c - b)/a",
		"(x + p)(x + q) = x^2 + (p + q)x + pq",
		"ax^2 + bx + c = 0  ⇒  x = (-b ± √(b^2 - 4ac))/2a",
	},
	models.CategoryGeometry: {
		"Rectangle: A = l × w",
		"Circle: A = πr^2",
		"Right triangle: a^2 + b^2 = c^2",
	},
	models.CategoryCalculus: {
		"d/dx (ax^n) = anx^(n-1)",
		"∫ ax^n dx = a/(n+1) x^(n+1) + C",
	},
}

// Generator builds problems. It is stateless apart from its random source.
type Generator struct {
	src random.Source
}

// NewGenerator creates a generator drawing from src
func NewGenerator(src random.Source) *Generator {
	return &Generator{src: src}
}

// Generate returns a problem of the given category.
//
// When difficulty is AnyDifficulty a template is picked uniformly among all
// templates of the category; otherwise only templates tagged with exactly that
// difficulty are eligible. Both error returns are retryable by the caller with
// different arguments: ErrUnknownCategory and ErrNoMatchingTemplate.
func (g *Generator) Generate(category models.Category, difficulty int) (*models.Problem, error) {
	templates, ok := catalog[category]
	if !ok {
		return nil, ErrUnknownCategory
	}

	eligible := templates
	if difficulty != AnyDifficulty {
		eligible = nil
		for _, t := range templates {
			if t.difficulty == difficulty {
				eligible = append(eligible, t)
			}
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoMatchingTemplate
	}

	t := random.Pick(g.src, eligible)
	out := t.generate(g.src)

	return &models.Problem{
		Question:   out.question,
		Answer:     out.answer,
		Category:   category,
		Difficulty: t.difficulty,
		Hint:       Hint(category),
		Variables:  out.variables,
	}, nil
}

// Hint returns the fixed hint text for a category
func Hint(category models.Category) string {
	if h, ok := hints[category]; ok {
		return h
	}
	return defaultHint
}

// Formulas returns the formula reference card of a category
func Formulas(category models.Category) []string {
	return append([]string(nil), formulas[category]...)
}

// Difficulties returns the distinct difficulty tags registered for a category
func Difficulties(category models.Category) []int {
	var out []int
	seen := make(map[int]bool)
	for _, t := range catalog[category] {
		if !seen[t.difficulty] {
			seen[t.difficulty] = true
			out = append(out, t.difficulty)
		}
	}
	return out
}
