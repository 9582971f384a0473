// Package valueobject contains domain value objects for the household ledger.
package valueobject

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domainerror "github.com/household-ledger/backend/internal/domain/error"
)

// PeriodKind is the granularity of a report period.
type PeriodKind string

const (
	PeriodYear    PeriodKind = "year"
	PeriodQuarter PeriodKind = "quarter"
	PeriodMonth   PeriodKind = "month"
)

const (
	minYear = 1
	maxYear = 9999
)

// PeriodQuery is an unresolved request for a report period.
// Quarter is read only for PeriodQuarter and Month only for PeriodMonth.
type PeriodQuery struct {
	Kind    PeriodKind
	Year    int
	Quarter int
	Month   int
}

// Period is a resolved, inclusive [Start, End] interval in UTC.
type Period struct {
	Kind    PeriodKind
	Year    int
	Quarter int
	Month   int
	Start   time.Time
	End     time.Time
	Label   string
}

// ParsePeriodQuery builds a PeriodQuery from raw query-string values.
// Empty month or quarter values are left as zero and rejected later by ResolvePeriod
// when the kind needs them.
func ParsePeriodQuery(kind, year, month, quarter string) (PeriodQuery, error) {
	q := PeriodQuery{Kind: PeriodKind(strings.ToLower(strings.TrimSpace(kind)))}

	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return PeriodQuery{}, invalidPeriod(fmt.Sprintf("year %q is not a valid integer", year))
	}
	q.Year = y

	if month = strings.TrimSpace(month); month != "" {
		m, err := strconv.Atoi(month)
		if err != nil {
			return PeriodQuery{}, invalidPeriod(fmt.Sprintf("month %q is not a valid integer", month))
		}
		q.Month = m
	}

	if quarter = strings.TrimSpace(quarter); quarter != "" {
		qt, err := strconv.Atoi(quarter)
		if err != nil {
			return PeriodQuery{}, invalidPeriod(fmt.Sprintf("quarter %q is not a valid integer", quarter))
		}
		q.Quarter = qt
	}

	return q, nil
}

// ResolvePeriod converts a query into concrete period bounds.
// End is the last millisecond of the period.
func ResolvePeriod(q PeriodQuery) (Period, error) {
	if q.Year < minYear || q.Year > maxYear {
		return Period{}, invalidPeriod(fmt.Sprintf("year %d is out of range", q.Year))
	}

	p := Period{Kind: q.Kind, Year: q.Year}

	switch q.Kind {
	case PeriodYear:
		p.Start = time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		p.End = lastMillisecond(p.Start.AddDate(1, 0, 0))
		p.Label = strconv.Itoa(q.Year)
	case PeriodQuarter:
		if q.Quarter < 1 || q.Quarter > 4 {
			return Period{}, invalidPeriod(fmt.Sprintf("quarter %d must be between 1 and 4", q.Quarter))
		}
		p.Quarter = q.Quarter
		p.Start = time.Date(q.Year, time.Month((q.Quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		p.End = lastMillisecond(p.Start.AddDate(0, 3, 0))
		p.Label = fmt.Sprintf("%d Q%d", q.Year, q.Quarter)
	case PeriodMonth:
		if q.Month < 1 || q.Month > 12 {
			return Period{}, invalidPeriod(fmt.Sprintf("month %d must be between 1 and 12", q.Month))
		}
		p.Month = q.Month
		p.Start = time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
		p.End = lastMillisecond(p.Start.AddDate(0, 1, 0))
		p.Label = fmt.Sprintf("%s %d", time.Month(q.Month), q.Year)
	default:
		return Period{}, invalidPeriod(fmt.Sprintf("unknown period %q", q.Kind))
	}

	return p, nil
}

// HasMonthlyBreakdown reports whether the period spans more than one month.
func (p Period) HasMonthlyBreakdown() bool {
	return p.Kind == PeriodYear || p.Kind == PeriodQuarter
}

// Months returns the first instant of every calendar month intersecting the period.
func (p Period) Months() []time.Time {
	var months []time.Time
	for m := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(p.End); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// MonthBounds returns the inclusive bounds of the calendar month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, lastMillisecond(start.AddDate(0, 1, 0))
}

// MonthsTouched counts the calendar months touched by [start, end], inclusive on both ends.
// It returns 0 when end is before start.
func MonthsTouched(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	start, end = start.UTC(), end.UTC()
	return (end.Year()*12 + int(end.Month())) - (start.Year()*12 + int(start.Month())) + 1
}

// EndOfDay returns the last millisecond of t's calendar day in UTC.
func EndOfDay(t time.Time) time.Time {
	t = t.UTC()
	return lastMillisecond(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1))
}

func lastMillisecond(next time.Time) time.Time {
	return next.Add(-time.Millisecond)
}

func invalidPeriod(message string) error {
	return domainerror.NewReportError(domainerror.ErrCodeInvalidPeriod, message, domainerror.ErrInvalidPeriod)
}
