package bmi

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

// Measurement bounds. Range checks run in the volunteer usecase before the
// engine is invoked; they live here so engine and usecase share one source.
var (
	MinWeightKg = decimal.New(0, 0)    // exclusive
	MaxWeightKg = decimal.New(500, 0)  // inclusive
	MinHeightM  = decimal.New(100, -2) // inclusive, 1.00 m
	MaxHeightM  = decimal.New(250, -2) // inclusive, 2.50 m
)

// Thresholds are the category boundaries. bmi < Low is Low, bmi > High is
// High, everything between (inclusive) is Normal.
type Thresholds struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// DefaultThresholds returns the standard 18.00 / 27.00 boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:  decimal.New(1800, -2),
		High: decimal.New(2700, -2),
	}
}

// ParseThresholds reads threshold strings (as carried by configuration) into
// exact decimals.
func ParseThresholds(low, high string) (Thresholds, error) {
	l, err := decimal.NewFromString(low)
	if err != nil {
		return Thresholds{}, fmt.Errorf("invalid low threshold %q: %w", low, err)
	}
	h, err := decimal.NewFromString(high)
	if err != nil {
		return Thresholds{}, fmt.Errorf("invalid high threshold %q: %w", high, err)
	}
	if l.GreaterThan(h) {
		return Thresholds{}, fmt.Errorf("low threshold %s exceeds high threshold %s", low, high)
	}
	return Thresholds{Low: l, High: h}, nil
}

// Result is the derived triple stored on every volunteer row.
type Result struct {
	BMI      decimal.Decimal
	Category model.BMICategory
	Color    model.BMIColor
}

// Engine computes BMI and its categorization. It is stateless apart from the
// thresholds injected at construction.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// Compute derives BMI = weight / height² rounded half-up to two decimals,
// plus category and color. Height must be positive; range validation happens
// upstream, the zero guard is kept here as an invariant of the division.
func (e *Engine) Compute(weightKg, heightM decimal.Decimal) (Result, error) {
	if !heightM.IsPositive() {
		return Result{}, fmt.Errorf("height must be positive, got %s", heightM.String())
	}

	raw := weightKg.DivRound(heightM.Mul(heightM), 8)
	value := raw.Round(2)

	category, color := e.categorize(value)
	return Result{BMI: value, Category: category, Color: color}, nil
}

func (e *Engine) categorize(bmi decimal.Decimal) (model.BMICategory, model.BMIColor) {
	switch {
	case bmi.LessThan(e.thresholds.Low):
		return model.BMICategoryLow, model.BMIColorYellow
	case bmi.GreaterThan(e.thresholds.High):
		return model.BMICategoryHigh, model.BMIColorRed
	default:
		return model.BMICategoryNormal, model.BMIColorGreen
	}
}

// ValidWeight reports whether weight lies in (0, 500].
func ValidWeight(weightKg decimal.Decimal) bool {
	return weightKg.GreaterThan(MinWeightKg) && weightKg.LessThanOrEqual(MaxWeightKg)
}

// ValidHeight reports whether height lies in [1.00, 2.50].
func ValidHeight(heightM decimal.Decimal) bool {
	return heightM.GreaterThanOrEqual(MinHeightM) && heightM.LessThanOrEqual(MaxHeightM)
}
