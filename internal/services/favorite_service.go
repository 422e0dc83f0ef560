package services

import (
	"context"
	"fmt"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"caltrack-backend-go/internal/nutrition"
	"caltrack-backend-go/internal/repository"
)

// FavoriteService handles reusable entry templates and their weight scaling.
type FavoriteService struct {
	favorites *repository.FavoriteRepository
}

func NewFavoriteService(favorites *repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites}
}

// Add persists a new favorite. Duplicates by (user, type, name) are rejected.
func (s *FavoriteService) Add(ctx context.Context, userID uint, in domain.FavoriteInput) (*domain.Favorite, error) {
	if in.Type != domain.EntryTypeFood && in.Type != domain.EntryTypeSport {
		return nil, apperrors.NewValidationError(fmt.Sprintf("favorite type must be %q or %q", domain.EntryTypeFood, domain.EntryTypeSport))
	}
	if in.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if in.Calories == nil {
		return nil, apperrors.NewValidationError("calories is required")
	}

	fav := &domain.Favorite{
		UserID:   userID,
		Type:     in.Type,
		Name:     in.Name,
		Calories: *in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fat:      in.Fat,
		Weight:   in.Weight,
	}
	if err := s.favorites.Insert(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

// List returns the user's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, userID uint) ([]domain.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}

// Delete removes an owned favorite.
func (s *FavoriteService) Delete(ctx context.Context, userID, id uint) error {
	return s.favorites.Delete(ctx, id, userID)
}

// ScaleToWeight recalculates an owned favorite's values for the requested
// weight in grams.
func (s *FavoriteService) ScaleToWeight(ctx context.Context, userID, id uint, grams float64) (*domain.ScaledFavorite, error) {
	fav, err := s.favorites.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return nutrition.ScaleFavoriteToWeight(fav, grams)
}
