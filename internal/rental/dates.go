package rental

import "time"

// CalendarDate reduces t to its calendar day, stored as midnight UTC.
// The year, month and day are taken from t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}

// normalizeDate maps a stored date back onto midnight UTC. Drivers may hand
// back the instant in the session time zone.
func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := CalendarDate(t.UTC())
	return &d
}

// overdue is true only for a lent-out row whose due date has passed.
func overdue(available bool, due *time.Time, today time.Time) bool {
	return !available && due != nil && due.Before(today)
}
