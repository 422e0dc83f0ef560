package domain

import (
	"time"
)

// Entry types. Calories are always stored positive; the semantic sign
// (intake vs. expenditure) is implied by the type.
const (
	EntryTypeFood  = "food"
	EntryTypeSport = "sport"
)

// AI provider names accepted in a user profile.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// User represents an account with its biometric profile. Profile fields are
// pointers because they stay null until the first profile save. BMR and
// GoalCalories are derived and recomputed on every save, never stored stale.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
	Username      string    `gorm:"uniqueIndex" json:"username"`
	Password      string    `json:"-"` // bcrypt hash
	Gender        *string   `json:"gender"`
	Age           *int      `json:"age"`
	Weight        *float64  `json:"weight"` // kg
	Height        *float64  `json:"height"` // cm
	ActivityLevel *float64  `json:"activity_level"`
	BMR           *float64  `gorm:"column:bmr" json:"bmr"`
	GoalCalories  *float64  `json:"goal_calories"`
	AIProvider    string    `gorm:"column:ai_provider;default:gemini" json:"ai_provider"`
	// MacroTargets is derived from GoalCalories on read, never stored.
	MacroTargets *MacroTargets `gorm:"-" json:"macro_targets,omitempty"`
}

// MacroTargets holds daily macro goals in grams.
type MacroTargets struct {
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
}

// Entry is one food or sport log record, owned by exactly one user.
// Date is an opaque timestamp string; day matching is done on its
// YYYY-MM-DD prefix, never time-zone-converted.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"` // grams, food only
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Weight    *float64  `json:"weight,omitempty"` // grams
	Date      string    `gorm:"index" json:"date"`
}

// Favorite is a reusable named entry template. Weight is the reference
// weight the macro values correspond to; nil means the default of 100g.
// (UserID, Type, Name) is unique — duplicates are rejected, not upserted.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorites_identity" json:"user_id"`
	Type      string    `gorm:"uniqueIndex:idx_favorites_identity" json:"type"`
	Name      string    `gorm:"uniqueIndex:idx_favorites_identity" json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Weight    *float64  `json:"weight,omitempty"`
}

// DailyStats is the reduction of one calendar day's entries. Derived on
// every query, never persisted. Entries keeps storage order.
type DailyStats struct {
	CaloriesIn  float64 `json:"calories_in"`
	CaloriesOut float64 `json:"calories_out"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Entries     []Entry `json:"entries"`
}

// HistoryPoint is one bucket of a history series. Date is the bucket label:
// YYYY-MM-DD for day buckets, "2024-W05"-style for ISO weeks, YYYY-MM for months.
type HistoryPoint struct {
	Date        string  `json:"date"`
	CaloriesIn  float64 `json:"calories_in"`
	CaloriesOut float64 `json:"calories_out"`
}

// FoodItem is one component of an AI food analysis.
type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	WeightG  float64 `json:"weight_g"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// FoodAnalysis is the normalized result of a food image/text analysis.
type FoodAnalysis struct {
	Foods []FoodItem `json:"foods"`
}

// SportAnalysis is the normalized result of a sport description analysis.
type SportAnalysis struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	DurationMin float64 `json:"duration_min"`
	Intensity   string  `json:"intensity"`
}

// ScaledFavorite is a favorite's values recalculated for a requested weight.
type ScaledFavorite struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Weight   float64 `json:"weight"`
}
