package calc

import (
	"errors"
	"math"
	"testing"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"2^10", 1024},
		{"7 / 2", 3.5},
		{"17 % 5", 2},
		{"-3 + 5", 2},
		{"sqrt(144)", 12},
		{"SQRT(81)", 9},
		{"abs(-4.5)", 4.5},
		{"floor(3.7) + ceil(1.2)", 5},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr)
			if err != nil {
				t.Fatalf("Eval(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalPi(t *testing.T) {
	got, err := Eval("pi * 2^2")
	if err != nil {
		t.Fatalf("Eval() error: %v", err)
	}
	if math.Abs(got-4*math.Pi) > 1e-9 {
		t.Errorf("Eval() = %v, want %v", got, 4*math.Pi)
	}
}

func TestEvalRejects(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want error
	}{
		{"empty", "  ", ErrInvalidExpression},
		{"unknown name", "os(1)", ErrInvalidExpression},
		{"loop", "(function() while true do end end)()", ErrInvalidExpression},
		{"string", `"a"`, ErrInvalidExpression},
		{"comment", "5--3", ErrInvalidExpression},
		{"concat", "1 .. 2", ErrInvalidExpression},
		{"syntax", "2 +", ErrInvalidExpression},
		{"division by zero", "1/0", ErrNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Eval(tt.expr); !errors.Is(err, tt.want) {
				t.Errorf("Eval(%q) error = %v, want %v", tt.expr, err, tt.want)
			}
		})
	}
}
