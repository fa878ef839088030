package bmi

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilab/imc-registry/internal/domain/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEngine_Compute(t *testing.T) {
	engine := NewEngine(DefaultThresholds())

	tests := []struct {
		name     string
		weightKg string
		heightM  string
		wantBMI  string
		wantCat  model.BMICategory
		wantCol  model.BMIColor
	}{
		{"normal range", "70.50", "1.75", "23.02", model.BMICategoryNormal, model.BMIColorGreen},
		{"underweight", "45.00", "1.80", "13.89", model.BMICategoryLow, model.BMIColorYellow},
		{"overweight", "120.00", "1.70", "41.52", model.BMICategoryHigh, model.BMIColorRed},
		{"square height", "80.00", "2.00", "20.00", model.BMICategoryNormal, model.BMIColorGreen},
		{"rounds half up", "56.64", "1.60", "22.13", model.BMICategoryNormal, model.BMIColorGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Compute(d(tt.weightKg), d(tt.heightM))
			require.NoError(t, err)
			assert.Equal(t, tt.wantBMI, result.BMI.StringFixed(2))
			assert.Equal(t, tt.wantCat, result.Category)
			assert.Equal(t, tt.wantCol, result.Color)
		})
	}
}

func TestEngine_Compute_ZeroHeight(t *testing.T) {
	engine := NewEngine(DefaultThresholds())

	_, err := engine.Compute(d("70.00"), decimal.Zero)
	assert.Error(t, err)
}

func TestEngine_Categorize_Boundaries(t *testing.T) {
	engine := NewEngine(DefaultThresholds())

	tests := []struct {
		bmi     string
		wantCat model.BMICategory
		wantCol model.BMIColor
	}{
		{"17.99", model.BMICategoryLow, model.BMIColorYellow},
		{"18.00", model.BMICategoryNormal, model.BMIColorGreen}, // inclusive lower bound
		{"27.00", model.BMICategoryNormal, model.BMIColorGreen}, // inclusive upper bound
		{"27.01", model.BMICategoryHigh, model.BMIColorRed},
	}

	for _, tt := range tests {
		t.Run(tt.bmi, func(t *testing.T) {
			cat, col := engine.categorize(d(tt.bmi))
			assert.Equal(t, tt.wantCat, cat)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}

func TestParseThresholds(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		th, err := ParseThresholds("18.50", "25.00")
		require.NoError(t, err)
		assert.Equal(t, "18.50", th.Low.StringFixed(2))
		assert.Equal(t, "25.00", th.High.StringFixed(2))
	})

	t.Run("low exceeds high", func(t *testing.T) {
		_, err := ParseThresholds("27.00", "18.00")
		assert.Error(t, err)
	})

	t.Run("malformed value", func(t *testing.T) {
		_, err := ParseThresholds("abc", "27.00")
		assert.Error(t, err)
	})
}

func TestValidWeight(t *testing.T) {
	assert.False(t, ValidWeight(decimal.Zero)) // exclusive lower bound
	assert.True(t, ValidWeight(d("0.01")))
	assert.True(t, ValidWeight(d("500.00"))) // inclusive upper bound
	assert.False(t, ValidWeight(d("500.01")))
	assert.False(t, ValidWeight(d("-10.00")))
}

func TestValidHeight(t *testing.T) {
	assert.False(t, ValidHeight(d("0.99")))
	assert.True(t, ValidHeight(d("1.00"))) // inclusive lower bound
	assert.True(t, ValidHeight(d("2.50"))) // inclusive upper bound
	assert.False(t, ValidHeight(d("2.51")))
}
