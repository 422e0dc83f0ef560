package repository

import (
	"context"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"gorm.io/gorm"
)

// EntryRepository handles food/sport log records. Every read and write is
// scoped by the owning user id.
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Insert persists a new entry for the user.
func (r *EntryRepository) Insert(ctx context.Context, entry *domain.Entry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// ListByUserAndDate returns the user's entries whose stored timestamp falls on
// the given calendar date. Matching is on the YYYY-MM-DD prefix of the opaque
// date string, in storage order.
func (r *EntryRepository) ListByUserAndDate(ctx context.Context, userID uint, date string) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date LIKE ?", userID, date+"%").
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entries, nil
}

// ListByUserSince returns the user's entries on or after sinceDate
// (YYYY-MM-DD). ISO timestamp strings compare correctly as strings.
func (r *EntryRepository) ListByUserSince(ctx context.Context, userID uint, sinceDate string) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, sinceDate).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return entries, nil
}

// Update edits name, calories and date of an entry owned by the user.
// An id that is missing or owned by someone else reports not found; the two
// cases are deliberately indistinguishable so existence is not leaked.
func (r *EntryRepository) Update(ctx context.Context, id, userID uint, upd domain.EntryUpdate) error {
	result := r.db.WithContext(ctx).Model(&domain.Entry{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"name":     upd.Name,
			"calories": upd.Calories,
			"date":     upd.Date,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("entry not found")
	}
	return nil
}

// Delete removes an entry owned by the user, with the same not-found
// semantics as Update.
func (r *EntryRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Entry{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("entry not found")
	}
	return nil
}
