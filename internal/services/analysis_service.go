package services

import (
	"context"
	"errors"
	"time"

	"caltrack-backend-go/internal/analysis"
	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"caltrack-backend-go/internal/ratelimit"
	"caltrack-backend-go/internal/repository"
)

// AnalysisService routes analysis requests to the provider configured in the
// user's profile. Analysis never writes to the store: a failed or abandoned
// request leaves no state behind, and the caller saves the reviewed result as
// an entry in a separate step.
type AnalysisService struct {
	registry *analysis.Registry
	users    *repository.UserRepository
	limiter  ratelimit.Limiter
	timeout  time.Duration
}

func NewAnalysisService(registry *analysis.Registry, users *repository.UserRepository, limiter ratelimit.Limiter, timeout time.Duration) *AnalysisService {
	return &AnalysisService{
		registry: registry,
		users:    users,
		limiter:  limiter,
		timeout:  timeout,
	}
}

// analyzerFor rate-limits the request and resolves the user's analyzer.
// The second return value is the user's weight in kg (0 when unset), which
// the sport estimate uses.
func (s *AnalysisService) analyzerFor(ctx context.Context, userID uint) (analysis.Analyzer, float64, error) {
	allowed, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	if !allowed {
		return nil, 0, apperrors.ErrRateLimitExceeded
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	provider := user.AIProvider
	if provider == "" {
		provider = domain.ProviderGemini
	}
	analyzer, err := s.registry.Get(provider)
	if err != nil {
		return nil, 0, err
	}

	var weightKg float64
	if user.Weight != nil {
		weightKg = *user.Weight
	}
	return analyzer, weightKg, nil
}

// mapTimeout converts a deadline error into the timeout taxonomy.
func mapTimeout(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(operation)
	}
	return err
}

func (s *AnalysisService) AnalyzeFoodImage(ctx context.Context, userID uint, image string, weightG float64) (*domain.FoodAnalysis, error) {
	if image == "" {
		return nil, apperrors.NewValidationError("image is required")
	}
	analyzer, _, err := s.analyzerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	result, err := analyzer.AnalyzeFoodImage(ctx, image, weightG)
	if err != nil {
		return nil, mapTimeout(err, "food image analysis")
	}
	return result, nil
}

func (s *AnalysisService) AnalyzeFoodText(ctx context.Context, userID uint, text string) (*domain.FoodAnalysis, error) {
	if text == "" {
		return nil, apperrors.NewValidationError("text is required")
	}
	analyzer, _, err := s.analyzerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	result, err := analyzer.AnalyzeFoodText(ctx, text)
	if err != nil {
		return nil, mapTimeout(err, "food text analysis")
	}
	return result, nil
}

func (s *AnalysisService) AnalyzeSportText(ctx context.Context, userID uint, text string) (*domain.SportAnalysis, error) {
	if text == "" {
		return nil, apperrors.NewValidationError("text is required")
	}
	analyzer, weightKg, err := s.analyzerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	result, err := analyzer.AnalyzeSportText(ctx, text, weightKg)
	if err != nil {
		return nil, mapTimeout(err, "sport analysis")
	}
	return result, nil
}
