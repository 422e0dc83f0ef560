package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
)

// Analyzer is the capability interface of one AI provider. Implementations
// produce best-effort nutritional/caloric estimates and are fallible; they
// never touch the store.
type Analyzer interface {
	AnalyzeFoodImage(ctx context.Context, image string, weightG float64) (*domain.FoodAnalysis, error)
	AnalyzeFoodText(ctx context.Context, text string) (*domain.FoodAnalysis, error)
	AnalyzeSportText(ctx context.Context, text string, userWeightKg float64) (*domain.SportAnalysis, error)
}

// Registry maps provider names to analyzers. The provider is selected once
// per request from the user profile's configured provider.
type Registry struct {
	analyzers map[string]Analyzer
}

func NewRegistry() *Registry {
	return &Registry{analyzers: make(map[string]Analyzer)}
}

func (r *Registry) Register(name string, a Analyzer) {
	r.analyzers[name] = a
}

// Get returns the analyzer for the named provider.
func (r *Registry) Get(name string) (Analyzer, error) {
	a, ok := r.analyzers[name]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown AI provider %q", name))
	}
	return a, nil
}

// Providers returns the registered provider names.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	return names
}

func foodImagePrompt(weightG float64) string {
	prompt := `Analyze this food image. Identify the components.
Return ONLY a valid JSON object (no markdown):
{
    "foods": [
        { "name": "food name", "calories": 100, "weight_g": 100, "protein_g": 5, "carbs_g": 10, "fat_g": 5 }
    ]
}
Estimate the values as accurately as you can.`
	if weightG > 0 {
		prompt += fmt.Sprintf("\nThe user states the total weight is %.0fg. Scale your estimates to that weight.", weightG)
	}
	return prompt
}

func foodTextPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following food description: %q.
Return ONLY a valid JSON object (no markdown):
{
    "foods": [
        { "name": "food name", "calories": 100, "weight_g": 100, "protein_g": 5, "carbs_g": 10, "fat_g": 5 }
    ]
}
Estimate the values as accurately as you can.`, text)
}

func sportTextPrompt(text string, userWeightKg float64) string {
	if userWeightKg <= 0 {
		userWeightKg = 70
	}
	return fmt.Sprintf(`Analyze the following sport description: %q.
User weight: %.0fkg.
Estimate the calories burned from the activity, its intensity and duration.
If no duration is given, assume a typical one that fits the description.
Return ONLY a valid JSON object (no markdown):
{
    "name": "activity name",
    "calories": 300,
    "duration_min": 30,
    "intensity": "moderate"
}`, text, userWeightKg)
}

// extractJSON pulls a JSON object out of a model reply that may be wrapped in
// code fences or surrounding text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// decodeFood parses a provider reply into a food analysis. A reply without
// valid JSON surfaces as an upstream analysis error.
func decodeFood(raw, provider string) (*domain.FoodAnalysis, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, apperrors.NewAnalysisError(fmt.Errorf("no valid JSON in response"), provider)
	}
	var result domain.FoodAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, apperrors.NewAnalysisError(fmt.Errorf("failed to parse response: %w", err), provider)
	}
	return &result, nil
}

// decodeSport parses a provider reply into a sport analysis.
func decodeSport(raw, provider string) (*domain.SportAnalysis, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, apperrors.NewAnalysisError(fmt.Errorf("no valid JSON in response"), provider)
	}
	var result domain.SportAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, apperrors.NewAnalysisError(fmt.Errorf("failed to parse response: %w", err), provider)
	}
	return &result, nil
}
