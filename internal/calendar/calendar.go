// Package calendar answers every time question the booking engine asks: what
// time it is in the reference zone, which days are public holidays, and from
// when a slot may be shown to candidates.
package calendar

import (
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/juju/clock"
)

const (
	DefaultTimezone           = "Europe/Paris"
	DefaultVisibilityLeadDays = 1
	DefaultVisibilityHour     = 12
)

// Service is safe for concurrent use. All results are expressed in the
// reference location.
type Service struct {
	clock    clock.Clock
	loc      *time.Location
	leadDays int
	hour     int

	mu       sync.Mutex
	holidays map[int]map[time.Time]string
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the reference timezone.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithVisibility sets how many days ahead, and from which hour, slots are
// disclosed.
func WithVisibility(leadDays, hour int) Option {
	return func(s *Service) {
		s.leadDays = leadDays
		s.hour = hour
	}
}

// New builds a calendar driven by clk. Pass clock.WallClock in production and
// a testclock in tests.
func New(clk clock.Clock, opts ...Option) *Service {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	s := &Service{
		clock:    clk,
		loc:      loc,
		leadDays: DefaultVisibilityLeadDays,
		hour:     DefaultVisibilityHour,
		holidays: make(map[int]map[time.Time]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current instant in the reference location.
func (s *Service) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Clock exposes the underlying clock, for timers and request-time middleware.
func (s *Service) Clock() clock.Clock {
	return s.clock
}

// Location returns the reference timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// StartOfDay returns midnight of t's calendar day in the reference location.
func (s *Service) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// AddDays moves t by n calendar days, keeping its wall-clock time across DST
// changes.
func (s *Service) AddDays(t time.Time, n int) time.Time {
	return t.In(s.loc).AddDate(0, 0, n)
}

// IsBusinessDay reports whether date is neither a weekend day nor a public
// holiday.
func (s *Service) IsBusinessDay(date time.Time) bool {
	switch date.In(s.loc).Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !s.IsHoliday(date)
}

// IsHoliday reports whether date falls on a French public holiday.
func (s *Service) IsHoliday(date time.Time) bool {
	_, ok := s.HolidayName(date)
	return ok
}

// HolidayName returns the holiday falling on date, if any.
func (s *Service) HolidayName(date time.Time) (string, bool) {
	day := s.StartOfDay(date)
	name, ok := s.holidaysOf(day.Year())[day]
	return name, ok
}

// Holidays lists the public holidays of year in date order.
func (s *Service) Holidays(year int) []Holiday {
	return holidaysIn(year, s.loc)
}

func (s *Service) holidaysOf(year int) map[time.Time]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if days, ok := s.holidays[year]; ok {
		return days
	}
	days := make(map[time.Time]string)
	for _, h := range holidaysIn(year, s.loc) {
		days[h.Date] = h.Name
	}
	s.holidays[year] = days
	return days
}

// DisclosureTime is the first instant at which a slot starting at slotDate is
// shown to candidates: the configured hour, lead days before the slot's day.
func (s *Service) DisclosureTime(slotDate time.Time) time.Time {
	y, m, d := slotDate.In(s.loc).Date()
	return time.Date(y, m, d-s.leadDays, s.hour, 0, 0, 0, s.loc)
}

// IsDisclosed reports whether a slot at slotDate is visible at now.
func (s *Service) IsDisclosed(slotDate, now time.Time) bool {
	return !now.Before(s.DisclosureTime(slotDate))
}

// VisibleUntil returns the exclusive upper bound on slot dates visible at now:
// a slot at D is disclosed exactly when D is before the returned instant.
func (s *Service) VisibleUntil(now time.Time) time.Time {
	local := now.In(s.loc)
	y, m, d := local.Date()
	days := s.leadDays
	if !local.Before(time.Date(y, m, d, s.hour, 0, 0, 0, s.loc)) {
		days++
	}
	return time.Date(y, m, d+days, 0, 0, 0, 0, s.loc)
}
