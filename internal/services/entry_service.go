package services

import (
	"context"
	"fmt"
	"time"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"caltrack-backend-go/internal/nutrition"
	"caltrack-backend-go/internal/repository"
)

const dayLayout = "2006-01-02"

// EntryService handles log entries and the aggregations derived from them.
type EntryService struct {
	entries *repository.EntryRepository
	now     func() time.Time
}

func NewEntryService(entries *repository.EntryRepository) *EntryService {
	return &EntryService{entries: entries, now: time.Now}
}

// Add validates and persists a new entry. Calories come either as an absolute
// value or as a per-100g value with a weight.
func (s *EntryService) Add(ctx context.Context, userID uint, in domain.EntryInput) (*domain.Entry, error) {
	if in.Type != domain.EntryTypeFood && in.Type != domain.EntryTypeSport {
		return nil, apperrors.NewValidationError(fmt.Sprintf("entry type must be %q or %q", domain.EntryTypeFood, domain.EntryTypeSport))
	}
	if in.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	calories, err := nutrition.DeriveManualCalories(in.Calories, in.CaloriesPer100g, in.Weight)
	if err != nil {
		return nil, err
	}
	if calories < 0 {
		return nil, apperrors.NewValidationError("calories must not be negative")
	}

	date := in.Date
	if date == "" {
		date = s.now().UTC().Format(time.RFC3339)
	} else if !validDayPrefix(date) {
		return nil, apperrors.NewValidationError("date must start with YYYY-MM-DD")
	}

	entry := &domain.Entry{
		UserID:   userID,
		Type:     in.Type,
		Name:     in.Name,
		Calories: calories,
		Weight:   in.Weight,
		Date:     date,
	}
	// Macros only apply to food; sport entries never carry them.
	if in.Type == domain.EntryTypeFood {
		entry.Protein = in.Protein
		entry.Carbs = in.Carbs
		entry.Fat = in.Fat
	}

	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DailyStats recomputes the stats for one calendar date from the store.
// An empty date means today.
func (s *EntryService) DailyStats(ctx context.Context, userID uint, date string) (*domain.DailyStats, error) {
	if date == "" {
		date = s.now().Format(dayLayout)
	}
	if _, err := time.Parse(dayLayout, date); err != nil {
		return nil, apperrors.NewValidationError("date must be formatted YYYY-MM-DD")
	}
	entries, err := s.entries.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return nutrition.AggregateDay(entries), nil
}

// validDayPrefix reports whether date starts with a real YYYY-MM-DD day.
// Stored dates are matched by that prefix, so anything else would never show
// up in daily stats or any history bucket.
func validDayPrefix(date string) bool {
	if len(date) < len(dayLayout) {
		return false
	}
	_, err := time.Parse(dayLayout, date[:len(dayLayout)])
	return err == nil
}

// historyRangeFor maps the API's range labels onto bucket granularities. The
// labels describe the window the UI shows, not the bucket size: a "week" of
// history is 7 day buckets, a "month" is ISO-week buckets over 60 days, a
// "year" is 12 month buckets.
func historyRangeFor(rng string) (nutrition.HistoryRange, error) {
	switch rng {
	case "week":
		return nutrition.RangeDay, nil
	case "month":
		return nutrition.RangeWeek, nil
	case "year":
		return nutrition.RangeMonth, nil
	default:
		return "", apperrors.NewValidationError("range must be week, month or year")
	}
}

// History returns the bucketed series for the requested range ending today.
func (s *EntryService) History(ctx context.Context, userID uint, rng string) ([]domain.HistoryPoint, error) {
	bucketRange, err := historyRangeFor(rng)
	if err != nil {
		return nil, err
	}
	ref := s.now()
	start, err := nutrition.HistoryWindowStart(bucketRange, ref)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByUserSince(ctx, userID, start.Format(dayLayout))
	if err != nil {
		return nil, err
	}
	return nutrition.AggregateHistory(entries, bucketRange, ref)
}

// Update edits name, calories and date of an owned entry.
func (s *EntryService) Update(ctx context.Context, userID, id uint, in domain.EntryUpdate) error {
	if in.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if in.Calories < 0 {
		return apperrors.NewValidationError("calories must not be negative")
	}
	if !validDayPrefix(in.Date) {
		return apperrors.NewValidationError("date must start with YYYY-MM-DD")
	}
	return s.entries.Update(ctx, id, userID, in)
}

// Delete removes an owned entry.
func (s *EntryService) Delete(ctx context.Context, userID, id uint) error {
	return s.entries.Delete(ctx, id, userID)
}
