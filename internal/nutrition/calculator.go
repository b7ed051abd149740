// Package nutrition derives daily calorie and macronutrient targets for
// pregnant and postnatal users from the Harris-Benedict equation.
package nutrition

import (
	"math"
	"strings"
)

const (
	DefaultWeightKg = 60.0
	DefaultHeightCm = 165.0
	DefaultAge      = 30.0
	DefaultActivity = "light"

	// FallbackCalories is served whenever a target cannot be computed.
	FallbackCalories = 2000
)

type Trimester string

const (
	TrimesterNone      Trimester = "none"
	TrimesterFirst     Trimester = "first"
	TrimesterSecond    Trimester = "second"
	TrimesterThird     Trimester = "third"
	TrimesterPostnatal Trimester = "postnatal"
)

var activityMultipliers = map[string]float64{
	"sedentary":  1.2,
	"light":      1.375,
	"moderate":   1.55,
	"active":     1.725,
	"veryActive": 1.9,
}

var trimesterAdditions = map[Trimester]float64{
	TrimesterFirst:     0,
	TrimesterSecond:    340,
	TrimesterThird:     450,
	TrimesterPostnatal: 400,
}

// Profile holds the inputs of the calculation. Zero values are replaced by defaults.
type Profile struct {
	WeightKg      float64
	HeightCm      float64
	Age           float64
	ActivityLevel string
	Trimester     Trimester
}

type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// WithDefaults fills missing inputs.
func (p Profile) WithDefaults() Profile {
	if p.WeightKg <= 0 {
		p.WeightKg = DefaultWeightKg
	}
	if p.HeightCm <= 0 {
		p.HeightCm = DefaultHeightCm
	}
	if p.Age <= 0 {
		p.Age = DefaultAge
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		p.ActivityLevel = DefaultActivity
	}
	if p.Trimester == "" {
		p.Trimester = TrimesterNone
	}
	return p
}

// BMR uses the female Harris-Benedict coefficients.
func BMR(weightKg, heightCm, age float64) float64 {
	return 655.1 + 9.563*weightKg + 1.850*heightCm - 4.676*age
}

// ActivityMultiplier returns the multiplier for level, falling back to "light".
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[DefaultActivity]
}

// TrimesterAddition is the extra daily intake for a pregnancy stage.
func TrimesterAddition(t Trimester) float64 {
	return trimesterAdditions[t]
}

// Maintenance is BMR scaled by the activity multiplier.
func (p Profile) Maintenance() float64 {
	p = p.WithDefaults()
	return BMR(p.WeightKg, p.HeightCm, p.Age) * ActivityMultiplier(p.ActivityLevel)
}

// DailyCalories is round(maintenance + trimester addition), or FallbackCalories
// when the inputs produce a non-finite or non-positive figure.
func (p Profile) DailyCalories() int {
	p = p.WithDefaults()
	total := p.Maintenance() + TrimesterAddition(p.Trimester)
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return FallbackCalories
	}
	return int(math.Round(total))
}

// MacroSplit converts a calorie figure into grams: 50% carbs, 30% fat, 20% protein.
func MacroSplit(calories int) Macros {
	c := float64(calories)
	return Macros{
		Carbs:   int(math.Round(c * 0.50 / 4)),
		Fat:     int(math.Round(c * 0.30 / 9)),
		Protein: int(math.Round(c * 0.20 / 4)),
	}
}

// ParseTrimester accepts the stage names used by clients ("second",
// "Second Trimester", "postpartum", ...). Unknown input maps to TrimesterNone.
func ParseTrimester(s string) Trimester {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, " trimester")
	switch s {
	case "first", "1":
		return TrimesterFirst
	case "second", "2":
		return TrimesterSecond
	case "third", "3":
		return TrimesterThird
	case "postnatal", "postpartum":
		return TrimesterPostnatal
	default:
		return TrimesterNone
	}
}

// TrimesterForWeeks maps gestational weeks to a trimester.
func TrimesterForWeeks(weeks int) Trimester {
	switch {
	case weeks <= 0:
		return TrimesterNone
	case weeks <= 13:
		return TrimesterFirst
	case weeks <= 27:
		return TrimesterSecond
	default:
		return TrimesterThird
	}
}
