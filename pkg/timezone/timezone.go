// Package timezone converts civil dates and times between the clinic's operating
// timezone and UTC.
//
// Two families of conversions live here and they are deliberately not symmetric:
// date-only values (date of birth, calendar dates typed by a user) are reformatted
// without any offset shift, while time-of-day values and appointment instants are
// shifted by the zone offset.
package timezone

import (
	"fmt"
	"time"

	// embed the tz database so the normalizer works on hosts without zoneinfo
	_ "time/tzdata"
)

const (
	DefaultLocation = "America/Sao_Paulo"

	TimeLayout      = "15:04:05"
	ShortTimeLayout = "15:04"
	DateLayout      = "2006-01-02"
	LocalDateLayout = "02/01/2006"
)

// Normalizer is safe for concurrent use; it only holds an immutable location.
type Normalizer struct {
	loc *time.Location
}

// New loads the named IANA location. An empty name selects DefaultLocation.
func New(name string) (*Normalizer, error) {
	if name == "" {
		name = DefaultLocation
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", name, err)
	}
	return &Normalizer{loc: loc}, nil
}

// NewWithLocation wraps an already loaded location.
func NewWithLocation(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// LocalTimeToUTC interprets an "HH:mm:ss" time of day in the local zone on a fixed
// reference date and returns the UTC time of day.
func (n *Normalizer) LocalTimeToUTC(t string) (string, error) {
	clock, err := parseStrict(TimeLayout, t)
	if err != nil {
		return "", err
	}
	local := time.Date(1970, time.January, 1, clock.Hour(), clock.Minute(), clock.Second(), 0, n.loc)
	return local.UTC().Format(TimeLayout), nil
}

// UTCTimeToLocal is the inverse of LocalTimeToUTC.
func (n *Normalizer) UTCTimeToLocal(t string) (string, error) {
	clock, err := parseStrict(TimeLayout, t)
	if err != nil {
		return "", err
	}
	utc := time.Date(1970, time.January, 1, clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
	return utc.In(n.loc).Format(TimeLayout), nil
}

// LocalDateToUTCDate reformats a "DD/MM/YYYY" date as "YYYY-MM-DD". No offset is applied.
func (n *Normalizer) LocalDateToUTCDate(date string) (string, error) {
	d, err := parseStrict(LocalDateLayout, date)
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}

// UTCDateToLocalDate reformats a "YYYY-MM-DD" date as "DD/MM/YYYY". No offset is applied.
func (n *Normalizer) UTCDateToLocalDate(date string) (string, error) {
	d, err := parseStrict(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.Format(LocalDateLayout), nil
}

// CombineLocalDateAndTimeToUTCInstant builds the stored instant of an appointment.
// The time of day is shifted to UTC while the calendar date is taken as already UTC,
// so a local time whose UTC equivalent crosses midnight keeps the typed date.
func (n *Normalizer) CombineLocalDateAndTimeToUTCInstant(date, t string) (time.Time, error) {
	day, err := parseStrict(DateLayout, date)
	if err != nil {
		return time.Time{}, err
	}
	utcTime, err := n.LocalTimeToUTC(t)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := time.Parse(TimeLayout, utcTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC), nil
}

// UTCInstantToLocalTimeString projects an instant to the local "HH:mm".
func (n *Normalizer) UTCInstantToLocalTimeString(instant time.Time) string {
	return instant.In(n.loc).Format(ShortTimeLayout)
}

// UTCInstantToLocalDate projects an instant to the local "DD/MM/YYYY".
func (n *Normalizer) UTCInstantToLocalDate(instant time.Time) string {
	return instant.In(n.loc).Format(LocalDateLayout)
}

// LocalDayWindow returns the UTC bounds of the local calendar day offsetDays away from
// now. Both bounds are inclusive; end is one microsecond before the next local midnight.
func (n *Normalizer) LocalDayWindow(now time.Time, offsetDays int) (time.Time, time.Time) {
	l := now.In(n.loc)
	start := time.Date(l.Year(), l.Month(), l.Day()+offsetDays, 0, 0, 0, 0, n.loc)
	next := time.Date(l.Year(), l.Month(), l.Day()+offsetDays+1, 0, 0, 0, 0, n.loc)
	return start.UTC(), next.Add(-time.Microsecond).UTC()
}

// LocalWeekday returns the weekday index (0 = Sunday) of now in the local zone.
func (n *Normalizer) LocalWeekday(now time.Time) int {
	return int(now.In(n.loc).Weekday())
}

// UTCDayWindow returns the inclusive bounds of the UTC calendar day containing now.
func UTCDayWindow(now time.Time) (time.Time, time.Time) {
	u := now.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1).Add(-time.Microsecond)
}

// UTCMonthWindow returns the inclusive bounds of the UTC calendar month containing now.
func UTCMonthWindow(now time.Time) (time.Time, time.Time) {
	u := now.UTC()
	start := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Microsecond)
}

// parseStrict parses value and rejects inputs that do not format back to themselves,
// e.g. "9:00:00" or "1/2/2024".
func parseStrict(layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid value %q for layout %s: %w", value, layout, err)
	}
	if t.Format(layout) != value {
		return time.Time{}, fmt.Errorf("invalid value %q for layout %s", value, layout)
	}
	return t, nil
}
