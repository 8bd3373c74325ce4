package domain

import (
	"fmt"
	"regexp"
	"time"
)

// PeriodType is the granularity of a snapshot.
type PeriodType string

const (
	Daily   PeriodType = "daily"
	Weekly  PeriodType = "weekly"
	Monthly PeriodType = "monthly"
)

// AllPeriodTypes returns the period types in write order.
func AllPeriodTypes() []PeriodType {
	return []PeriodType{Daily, Weekly, Monthly}
}

// ParsePeriodType validates s as a period type.
func ParsePeriodType(s string) (PeriodType, error) {
	switch p := PeriodType(s); p {
	case Daily, Weekly, Monthly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period type %q", s)
	}
}

var periodIDRe = map[PeriodType]*regexp.Regexp{
	Daily:   regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	Weekly:  regexp.MustCompile(`^\d{4}-W\d{2}$`),
	Monthly: regexp.MustCompile(`^\d{4}-\d{2}$`),
}

// ValidID reports whether id is well formed for the period type.
func (p PeriodType) ValidID(id string) bool {
	re, ok := periodIDRe[p]
	return ok && re.MatchString(id)
}

// PeriodIDs holds the identifiers of the three periods containing an instant.
type PeriodIDs struct {
	Daily   string
	Weekly  string
	Monthly string
}

// PeriodIDsFor derives the period identifiers from t in t's own location.
func PeriodIDsFor(t time.Time) PeriodIDs {
	return PeriodIDs{
		Daily:   t.Format("2006-01-02"),
		Weekly:  ISOWeekID(t),
		Monthly: t.Format("2006-01"),
	}
}

// ID returns the identifier for the given period type.
func (ids PeriodIDs) ID(p PeriodType) string {
	switch p {
	case Daily:
		return ids.Daily
	case Weekly:
		return ids.Weekly
	case Monthly:
		return ids.Monthly
	default:
		return ""
	}
}

// ISOWeekID formats the ISO 8601 week of t as YYYY-Www.
func ISOWeekID(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", y, w)
}

// LocalNoon returns 12:00:00 on t's calendar date in t's location.
func LocalNoon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

// Contains reports whether the calendar date day (YYYY-MM-DD) falls inside
// the period id of type p.
func (p PeriodType) Contains(id, day string) (bool, error) {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return false, fmt.Errorf("parse date_ref: %w", err)
	}
	return PeriodIDsFor(d).ID(p) == id, nil
}
