package domain

import (
	"context"
)

// ProfileInput carries the profile-save payload.
type ProfileInput struct {
	Gender        string  `json:"gender"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	ActivityLevel float64 `json:"activity_level"`
	AIProvider    string  `json:"ai_provider"`
}

// EntryInput carries the add-entry payload. Calories and CaloriesPer100g are
// mutually exclusive: exactly one form must be supplied, and the per-100g form
// requires Weight.
type EntryInput struct {
	Type            string   `json:"type"`
	Name            string   `json:"name"`
	Calories        *float64 `json:"calories"`
	CaloriesPer100g *float64 `json:"calories_per_100g"`
	Protein         float64  `json:"protein"`
	Carbs           float64  `json:"carbs"`
	Fat             float64  `json:"fat"`
	Weight          *float64 `json:"weight"`
	Date            string   `json:"date"`
}

// EntryUpdate carries the editable fields of an entry.
type EntryUpdate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Date     string  `json:"date"`
}

// FavoriteInput carries the add-favorite payload.
type FavoriteInput struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Calories *float64 `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Weight   *float64 `json:"weight"`
}

// AuthService handles registration, login and token verification.
type AuthService interface {
	Register(ctx context.Context, username, password string) (uint, error)
	Login(ctx context.Context, username, password string) (token string, err error)
	VerifyToken(token string) (userID uint, err error)
}

// ProfileService handles biometric profile reads and saves.
type ProfileService interface {
	Save(ctx context.Context, userID uint, in ProfileInput) (*User, error)
	Get(ctx context.Context, userID uint) (*User, error)
}

// EntryService handles log entries and their aggregations.
type EntryService interface {
	Add(ctx context.Context, userID uint, in EntryInput) (*Entry, error)
	DailyStats(ctx context.Context, userID uint, date string) (*DailyStats, error)
	History(ctx context.Context, userID uint, rng string) ([]HistoryPoint, error)
	Update(ctx context.Context, userID, id uint, in EntryUpdate) error
	Delete(ctx context.Context, userID, id uint) error
}

// FavoriteService handles reusable entry templates.
type FavoriteService interface {
	Add(ctx context.Context, userID uint, in FavoriteInput) (*Favorite, error)
	List(ctx context.Context, userID uint) ([]Favorite, error)
	Delete(ctx context.Context, userID, id uint) error
	ScaleToWeight(ctx context.Context, userID, id uint, grams float64) (*ScaledFavorite, error)
}

// AnalysisService routes food/sport descriptions to the user's configured
// AI provider. Analysis is read-only: nothing is persisted until the caller
// saves the reviewed result as an entry.
type AnalysisService interface {
	AnalyzeFoodImage(ctx context.Context, userID uint, image string, weightG float64) (*FoodAnalysis, error)
	AnalyzeFoodText(ctx context.Context, userID uint, text string) (*FoodAnalysis, error)
	AnalyzeSportText(ctx context.Context, userID uint, text string) (*SportAnalysis, error)
}
