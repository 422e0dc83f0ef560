package services

import (
	"context"
	"testing"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
)

func TestDeriveTargets(t *testing.T) {
	cases := []struct {
		name     string
		gender   string
		weight   float64
		height   float64
		age      int
		pal      float64
		wantBMR  float64
		wantGoal float64
		wantErr  bool
	}{
		// BMR 1673.75 rounds to 1674 for storage, but the goal multiplies
		// the exact value: round(1673.75 * 1.375) = 2301, not 2302.
		{"male reference", "male", 70, 175, 25, 1.375, 1674, 2301, false},
		// BMR 1507.75 -> 1508 stored, round(1507.75 * 1.2) = 1809
		{"female reference", "female", 70, 175, 25, 1.2, 1508, 1809, false},
		{"unknown gender", "other", 70, 175, 25, 1.2, 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bmr, goal, err := deriveTargets(tc.gender, tc.weight, tc.height, tc.age, tc.pal)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got bmr=%v goal=%v", bmr, goal)
				}
				if apperrors.TypeOf(err) != apperrors.ErrorTypeValidation {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bmr != tc.wantBMR {
				t.Errorf("bmr = %v, want %v", bmr, tc.wantBMR)
			}
			if goal != tc.wantGoal {
				t.Errorf("goal = %v, want %v", goal, tc.wantGoal)
			}
		})
	}
}

func TestWithMacroTargets(t *testing.T) {
	goal := 2000.0
	user := withMacroTargets(&domain.User{GoalCalories: &goal})
	if user.MacroTargets == nil {
		t.Fatal("expected macro targets to be attached")
	}
	want := domain.MacroTargets{Carbs: 250, Protein: 150, Fat: 44}
	if *user.MacroTargets != want {
		t.Errorf("macro targets = %+v, want %+v", *user.MacroTargets, want)
	}

	bare := withMacroTargets(&domain.User{})
	if bare.MacroTargets != nil {
		t.Errorf("expected no macro targets without a goal, got %+v", bare.MacroTargets)
	}
}

func TestProfileSaveValidation(t *testing.T) {
	// Validation runs before any store access, so a nil repository is safe.
	svc := NewProfileService(nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   domain.ProfileInput
	}{
		{"zero age", domain.ProfileInput{Gender: "male", Weight: 70, Height: 175, ActivityLevel: 1.2}},
		{"zero weight", domain.ProfileInput{Gender: "male", Age: 25, Height: 175, ActivityLevel: 1.2}},
		{"zero height", domain.ProfileInput{Gender: "male", Age: 25, Weight: 70, ActivityLevel: 1.2}},
		{"bad activity level", domain.ProfileInput{Gender: "male", Age: 25, Weight: 70, Height: 175, ActivityLevel: 1.3}},
		{"bad provider", domain.ProfileInput{Gender: "male", Age: 25, Weight: 70, Height: 175, ActivityLevel: 1.2, AIProvider: "claude"}},
		{"bad gender", domain.ProfileInput{Gender: "other", Age: 25, Weight: 70, Height: 175, ActivityLevel: 1.2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Save(ctx, 1, tc.in)
			if apperrors.TypeOf(err) != apperrors.ErrorTypeValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
