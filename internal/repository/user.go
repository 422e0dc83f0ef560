package repository

import (
	"context"
	"errors"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A taken username is a conflict.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	var existing domain.User
	err := r.db.WithContext(ctx).Where("username = ?", user.Username).First(&existing).Error
	if err == nil {
		return apperrors.NewConflictError("username already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewDatabaseError(err)
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// FindByUsername returns the user with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}

// FindByID returns the user with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}

// SaveProfile persists the profile fields of an existing user, including the
// freshly derived BMR and goal calories.
func (r *UserRepository) SaveProfile(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"gender":         user.Gender,
			"age":            user.Age,
			"weight":         user.Weight,
			"height":         user.Height,
			"activity_level": user.ActivityLevel,
			"bmr":            user.BMR,
			"goal_calories":  user.GoalCalories,
			"ai_provider":    user.AIProvider,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("user not found")
	}
	return nil
}
