package problems

import (
	"fmt"
	"math"
	"strconv"

	"github.com/korjavin/mathdungeonbot/models"
	"github.com/korjavin/mathdungeonbot/random"
)

type generated struct {
	question  string
	answer    string
	variables map[string]int
}

type template struct {
	name       string
	difficulty int
	generate   func(src random.Source) generated
}

// catalog holds the templates per category; draw order inside each
// generator is part of its contract, seeded runs depend on it.
var catalog = map[models.Category][]template{
	models.CategoryArithmetic: {
		{name: "sum", difficulty: 1, generate: genSum},
		{name: "product", difficulty: 1, generate: genProduct},
		{name: "fraction", difficulty: 2, generate: genFraction},
	},
	models.CategoryAlgebra: {
		{name: "linear", difficulty: 3, generate: genLinear},
		{name: "expand", difficulty: 4, generate: genExpand},
		{name: "quadratic", difficulty: 5, generate: genQuadratic},
	},
	models.CategoryGeometry: {
		{name: "rectangle", difficulty: 2, generate: genRectangle},
		{name: "circle", difficulty: 3, generate: genCircle},
		{name: "right_triangle", difficulty: 4, generate: genRightTriangle},
	},
	models.CategoryCalculus: {
		{name: "derivative", difficulty: 6, generate: genDerivative},
		{name: "integral", difficulty: 7, generate: genIntegral},
	},
}

func genSum(src random.Source) generated {
	a := random.Between(src, 1, 100)
	b := random.Between(src, 1, 100)
	return generated{
		question:  fmt.Sprintf("What is %d + %d?", a, b),
		answer:    strconv.Itoa(a + b),
		variables: map[string]int{"a": a, "b": b},
	}
}

func genProduct(src random.Source) generated {
	a := random.Between(src, 1, 12)
	b := random.Between(src, 1, 12)
	return generated{
		question:  fmt.Sprintf("What is %d × %d?", a, b),
		answer:    strconv.Itoa(a * b),
		variables: map[string]int{"a": a, "b": b},
	}
}

func genFraction(src random.Source) generated {
	numerator := random.Between(src, 2, 21)
	denominator := random.Between(src, 2, 21)
	common := random.Between(src, 2, 6)
	numerator *= common
	denominator *= common

	d := gcd(numerator, denominator)
	num, den := numerator/d, denominator/d

	answer := fmt.Sprintf("%d/%d", num, den)
	if den == 1 {
		answer = strconv.Itoa(num)
	}
	return generated{
		question:  fmt.Sprintf("Simplify the fraction %d/%d", numerator, denominator),
		answer:    answer,
		variables: map[string]int{"numerator": numerator, "denominator": denominator},
	}
}

func genLinear(src random.Source) generated {
	a := random.Between(src, 1, 10)
	x := random.Between(src, -10, 9)
	b := random.Between(src, -10, 9)
	c := a*x + b
	return generated{
		question:  fmt.Sprintf("Solve for x: %dx %s = %d", a, signed(b), c),
		answer:    strconv.Itoa(x),
		variables: map[string]int{"a": a, "b": b, "c": c, "x": x},
	}
}

func genExpand(src random.Source) generated {
	a := random.Between(src, -5, 4)
	b := random.Between(src, -5, 4)
	return generated{
		question:  fmt.Sprintf("Expand: (x %s)(x %s)", signed(a), signed(b)),
		answer:    ExpandedQuadratic(a+b, a*b),
		variables: map[string]int{"a": a, "b": b},
	}
}

func genQuadratic(src random.Source) generated {
	root1 := random.Between(src, -5, 4)
	root2 := random.Between(src, -5, 4)
	b := -(root1 + root2)
	c := root1 * root2

	answer := fmt.Sprintf("x = %d, %d", min(root1, root2), max(root1, root2))
	if root1 == root2 {
		answer = fmt.Sprintf("x = %d", root1)
	}
	return generated{
		question:  fmt.Sprintf("Solve the quadratic: x² %sx %s = 0", signed(b), signed(c)),
		answer:    answer,
		variables: map[string]int{"b": b, "c": c, "root1": root1, "root2": root2},
	}
}

func genRectangle(src random.Source) generated {
	l := random.Between(src, 1, 20)
	w := random.Between(src, 1, 20)
	return generated{
		question:  fmt.Sprintf("Find the area of a rectangle with length %d and width %d", l, w),
		answer:    strconv.Itoa(l * w),
		variables: map[string]int{"l": l, "w": w},
	}
}

func genCircle(src random.Source) generated {
	r := random.Between(src, 1, 10)
	area := math.Pi * float64(r) * float64(r)
	return generated{
		question:  fmt.Sprintf("Find the area of a circle with radius %d (use π ≈ 3.14159)", r),
		answer:    strconv.FormatFloat(area, 'f', 2, 64),
		variables: map[string]int{"r": r},
	}
}

func genRightTriangle(src random.Source) generated {
	a := random.Between(src, 3, 12)
	c := a + random.Between(src, 1, 10)
	b := math.Sqrt(float64(c*c - a*a))
	return generated{
		question:  fmt.Sprintf("In a right triangle, if one leg is %d and the hypotenuse is %d, find the other leg", a, c),
		answer:    strconv.FormatFloat(b, 'f', 2, 64),
		variables: map[string]int{"a": a, "c": c},
	}
}

func genDerivative(src random.Source) generated {
	n := random.Between(src, 2, 9)
	answer := fmt.Sprintf("%dx^%d", n, n-1)
	if n == 2 {
		answer = "2x"
	}
	return generated{
		question:  fmt.Sprintf("Find the derivative of x^%d", n),
		answer:    answer,
		variables: map[string]int{"n": n},
	}
}

func genIntegral(src random.Source) generated {
	a := random.Between(src, 1, 10)
	n := random.Between(src, 1, 5)
	power := n + 1
	coefficient := float64(a) / float64(power)

	answer := fmt.Sprintf("%sx^%d + C", strconv.FormatFloat(coefficient, 'f', -1, 64), power)
	if coefficient == 1 {
		answer = fmt.Sprintf("x^%d + C", power)
	}
	return generated{
		question:  fmt.Sprintf("Evaluate the integral of %dx^%d dx", a, n),
		answer:    answer,
		variables: map[string]int{"a": a, "n": n},
	}
}

// ExpandedQuadratic renders x² + linear·x + constant, omitting zero terms.
func ExpandedQuadratic(linear, constant int) string {
	out := "x²"
	if linear != 0 {
		out += " " + signed(linear) + "x"
	}
	if constant != 0 {
		out += " " + signed(constant)
	}
	return out
}

// signed renders v as "+ v" or "- |v|".
func signed(v int) string {
	if v < 0 {
		return fmt.Sprintf("- %d", -v)
	}
	return fmt.Sprintf("+ %d", v)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
