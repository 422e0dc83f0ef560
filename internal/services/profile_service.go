package services

import (
	"context"
	"fmt"
	"math"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"caltrack-backend-go/internal/nutrition"
	"caltrack-backend-go/internal/repository"
)

// ProfileService derives BMR and calorie targets from biometrics and keeps
// them in sync with the profile. Derived fields are recomputed on every save.
type ProfileService struct {
	users *repository.UserRepository
}

func NewProfileService(users *repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Save validates the profile input, derives BMR and goal calories, and
// persists everything on the user record.
func (s *ProfileService) Save(ctx context.Context, userID uint, in domain.ProfileInput) (*domain.User, error) {
	if in.Age <= 0 {
		return nil, apperrors.NewValidationError("age must be positive")
	}
	if in.Weight <= 0 {
		return nil, apperrors.NewValidationError("weight must be positive")
	}
	if in.Height <= 0 {
		return nil, apperrors.NewValidationError("height must be positive")
	}
	if !nutrition.IsValidActivityLevel(in.ActivityLevel) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("activity level %v is not a valid PAL value", in.ActivityLevel))
	}
	provider := in.AIProvider
	if provider == "" {
		provider = domain.ProviderGemini
	}
	if provider != domain.ProviderGemini && provider != domain.ProviderOpenAI {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown AI provider %q", provider))
	}

	bmr, goal, err := deriveTargets(in.Gender, in.Weight, in.Height, in.Age, in.ActivityLevel)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:            userID,
		Gender:        &in.Gender,
		Age:           &in.Age,
		Weight:        &in.Weight,
		Height:        &in.Height,
		ActivityLevel: &in.ActivityLevel,
		BMR:           &bmr,
		GoalCalories:  &goal,
		AIProvider:    provider,
	}
	if err := s.users.SaveProfile(ctx, user); err != nil {
		return nil, err
	}
	saved, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withMacroTargets(saved), nil
}

// Get returns the user's profile with derived macro targets attached.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withMacroTargets(user), nil
}

// deriveTargets computes the stored derived fields from validated biometrics.
// The goal multiplies the exact BMR before any rounding; only the stored BMR
// value is rounded.
func deriveTargets(gender string, weightKg, heightCm float64, age int, pal float64) (bmr, goal float64, err error) {
	exact, err := nutrition.ComputeBMR(gender, weightKg, heightCm, age)
	if err != nil {
		return 0, 0, err
	}
	return math.Round(exact), nutrition.ComputeTargetCalories(exact, pal), nil
}

// withMacroTargets attaches the macro split derived from goal calories.
func withMacroTargets(user *domain.User) *domain.User {
	if user.GoalCalories != nil {
		targets := nutrition.ComputeMacroTargets(*user.GoalCalories)
		user.MacroTargets = &targets
	}
	return user
}
