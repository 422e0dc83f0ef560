package nutrition

import (
	"fmt"
	"sort"
	"time"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
)

// HistoryRange selects the bucket granularity of a history series.
type HistoryRange string

const (
	// RangeDay buckets the trailing 7 calendar days, one point per day.
	RangeDay HistoryRange = "day"
	// RangeWeek buckets the trailing 60 days by ISO week of year.
	RangeWeek HistoryRange = "week"
	// RangeMonth buckets the trailing 12 calendar months, one point per month.
	RangeMonth HistoryRange = "month"
)

const dayLayout = "2006-01-02"

// dayOf extracts the YYYY-MM-DD part of a stored entry date. Dates are opaque
// timestamp strings; the calendar day is their prefix, never a converted time.
func dayOf(date string) string {
	if len(date) < len(dayLayout) {
		return date
	}
	return date[:len(dayLayout)]
}

// AggregateDay reduces one calendar day's entries into daily stats. Food
// entries add to calories_in and the macro totals; sport entries add to
// calories_out only. The entry list is passed through in storage order.
func AggregateDay(entries []domain.Entry) *domain.DailyStats {
	stats := &domain.DailyStats{Entries: entries}
	if stats.Entries == nil {
		stats.Entries = []domain.Entry{}
	}
	for _, e := range entries {
		switch e.Type {
		case domain.EntryTypeFood:
			stats.CaloriesIn += e.Calories
			stats.Protein += e.Protein
			stats.Carbs += e.Carbs
			stats.Fat += e.Fat
		case domain.EntryTypeSport:
			stats.CaloriesOut += e.Calories
		}
	}
	return stats
}

// HistoryWindowStart returns the first calendar day covered by a history
// range ending at ref. Used by callers to fetch the right entry window.
func HistoryWindowStart(rng HistoryRange, ref time.Time) (time.Time, error) {
	switch rng {
	case RangeDay:
		return ref.AddDate(0, 0, -6), nil
	case RangeWeek:
		return ref.AddDate(0, 0, -59), nil
	case RangeMonth:
		return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, -11, 0), nil
	default:
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("unknown history range %q", rng))
	}
}

// AggregateHistory buckets entries into a contiguous series ending at ref.
// Day and month ranges always emit every bucket in the window, zero-filled
// when empty. The week range emits only buckets with at least one entry —
// a known asymmetry kept for parity with the existing behavior. Points are
// sorted ascending by bucket key.
func AggregateHistory(entries []domain.Entry, rng HistoryRange, ref time.Time) ([]domain.HistoryPoint, error) {
	switch rng {
	case RangeDay:
		return aggregateByDay(entries, ref), nil
	case RangeWeek:
		return aggregateByISOWeek(entries, ref), nil
	case RangeMonth:
		return aggregateByMonth(entries, ref), nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown history range %q", rng))
	}
}

func accumulate(p *domain.HistoryPoint, e domain.Entry) {
	switch e.Type {
	case domain.EntryTypeFood:
		p.CaloriesIn += e.Calories
	case domain.EntryTypeSport:
		p.CaloriesOut += e.Calories
	}
}

// aggregateByDay emits exactly 7 day buckets for [ref-6, ref], oldest first.
func aggregateByDay(entries []domain.Entry, ref time.Time) []domain.HistoryPoint {
	points := make([]domain.HistoryPoint, 0, 7)
	index := make(map[string]int, 7)
	for i := 6; i >= 0; i-- {
		key := ref.AddDate(0, 0, -i).Format(dayLayout)
		index[key] = len(points)
		points = append(points, domain.HistoryPoint{Date: key})
	}
	for _, e := range entries {
		if i, ok := index[dayOf(e.Date)]; ok {
			accumulate(&points[i], e)
		}
	}
	return points
}

// isoWeekKey labels a day by its ISO week, e.g. "2024-W05". The ISO year is
// used so late-December/early-January days land in the right bucket.
func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// aggregateByISOWeek buckets the trailing 60 days by ISO week. Weeks with no
// entries are not emitted. Window bounds compare on the YYYY-MM-DD prefix so
// both boundary days count in full, whatever clock time ref carries.
func aggregateByISOWeek(entries []domain.Entry, ref time.Time) []domain.HistoryPoint {
	startDay := ref.AddDate(0, 0, -59).Format(dayLayout)
	refDay := ref.Format(dayLayout)
	buckets := make(map[string]*domain.HistoryPoint)
	for _, e := range entries {
		day := dayOf(e.Date)
		if day < startDay || day > refDay {
			continue
		}
		parsed, err := time.Parse(dayLayout, day)
		if err != nil {
			continue
		}
		key := isoWeekKey(parsed)
		p, ok := buckets[key]
		if !ok {
			p = &domain.HistoryPoint{Date: key}
			buckets[key] = p
		}
		accumulate(p, e)
	}

	points := make([]domain.HistoryPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// aggregateByMonth emits exactly 12 month buckets ending at ref's month,
// oldest first, zero-filled when empty.
func aggregateByMonth(entries []domain.Entry, ref time.Time) []domain.HistoryPoint {
	points := make([]domain.HistoryPoint, 0, 12)
	index := make(map[string]int, 12)
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, -11, 0)
	for i := 0; i < 12; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		index[key] = len(points)
		points = append(points, domain.HistoryPoint{Date: key})
	}
	for _, e := range entries {
		day := dayOf(e.Date)
		if len(day) < 7 {
			continue
		}
		if i, ok := index[day[:7]]; ok {
			accumulate(&points[i], e)
		}
	}
	return points
}
