package nutrition

import (
	"fmt"
	"math"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
)

// Genders recognized by the BMR formula.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// activityLevels is the fixed PAL set. Values outside it are rejected at the
// profile-save boundary.
var activityLevels = []float64{1.2, 1.375, 1.55, 1.725, 1.9}

// IsValidActivityLevel reports whether pal is one of the fixed PAL multipliers.
func IsValidActivityLevel(pal float64) bool {
	for _, v := range activityLevels {
		if pal == v {
			return true
		}
	}
	return false
}

// ComputeBMR computes the basal metabolic rate via Mifflin-St Jeor.
// Unrecognized gender is a validation error, not a silent fallback.
func ComputeBMR(gender string, weightKg, heightCm float64, age int) (float64, error) {
	var s float64
	switch gender {
	case GenderMale:
		s = 5
	case GenderFemale:
		s = -161
	default:
		return 0, apperrors.NewValidationError(fmt.Sprintf("unknown gender %q", gender))
	}
	return 10*weightKg + 6.25*heightCm - 5*float64(age) + s, nil
}

// ComputeTargetCalories multiplies BMR by the activity level multiplier,
// rounded to the nearest calorie.
func ComputeTargetCalories(bmr, pal float64) float64 {
	return math.Round(bmr * pal)
}

// ComputeMacroTargets splits a calorie target 50/30/20 into carbs, protein
// and fat grams at 4/4/9 kcal per gram.
func ComputeMacroTargets(targetCalories float64) domain.MacroTargets {
	return domain.MacroTargets{
		Carbs:   math.Round(targetCalories * 0.5 / 4),
		Protein: math.Round(targetCalories * 0.3 / 4),
		Fat:     math.Round(targetCalories * 0.2 / 9),
	}
}

// defaultReferenceWeight applies when a stored favorite has no weight.
const defaultReferenceWeight = 100.0

// ScaleFavoriteToWeight recalculates a favorite's calories and macros for the
// requested weight in grams. Every value is scaled by grams/referenceWeight
// and rounded to the nearest integer.
func ScaleFavoriteToWeight(fav *domain.Favorite, grams float64) (*domain.ScaledFavorite, error) {
	if grams <= 0 {
		return nil, apperrors.NewValidationError("requested weight must be positive")
	}
	ref := defaultReferenceWeight
	if fav.Weight != nil && *fav.Weight > 0 {
		ref = *fav.Weight
	}
	factor := grams / ref
	return &domain.ScaledFavorite{
		Name:     fav.Name,
		Type:     fav.Type,
		Calories: math.Round(fav.Calories * factor),
		Protein:  math.Round(fav.Protein * factor),
		Carbs:    math.Round(fav.Carbs * factor),
		Fat:      math.Round(fav.Fat * factor),
		Weight:   grams,
	}, nil
}

// DeriveManualCalories resolves the two-field manual calorie input: either an
// absolute calorie value, or a per-100g value together with a weight in grams.
// Supplying neither, both, or per-100g without a weight is a validation error.
func DeriveManualCalories(absolute, per100g, weightG *float64) (float64, error) {
	switch {
	case absolute != nil && per100g != nil:
		return 0, apperrors.NewValidationError("calories and calories_per_100g are mutually exclusive")
	case absolute != nil:
		return *absolute, nil
	case per100g != nil:
		if weightG == nil || *weightG <= 0 {
			return 0, apperrors.NewValidationError("calories_per_100g requires a positive weight")
		}
		return *per100g / 100 * *weightG, nil
	default:
		return 0, apperrors.NewValidationError("calories or calories_per_100g is required")
	}
}
