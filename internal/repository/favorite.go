package repository

import (
	"context"
	"errors"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"gorm.io/gorm"
)

// FavoriteRepository handles reusable entry templates.
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Insert persists a new favorite. A favorite with the same (user, type, name)
// is rejected as a conflict, never upserted.
func (r *FavoriteRepository) Insert(ctx context.Context, fav *domain.Favorite) error {
	var existing domain.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND name = ?", fav.UserID, fav.Type, fav.Name).
		First(&existing).Error
	if err == nil {
		return apperrors.ErrDuplicateFavorite
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewDatabaseError(err)
	}
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ListByUser returns the user's favorites, newest first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return favorites, nil
}

// FindByID returns a favorite owned by the user.
func (r *FavoriteRepository) FindByID(ctx context.Context, id, userID uint) (*domain.Favorite, error) {
	var fav domain.Favorite
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&fav).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("favorite not found")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &fav, nil
}

// Delete removes a favorite owned by the user. Missing and unowned ids both
// report not found.
func (r *FavoriteRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("favorite not found")
	}
	return nil
}
