package calendar

import (
	"sort"
	"time"
)

// Holiday is a public holiday on a given day.
type Holiday struct {
	Date time.Time
	Name string
}

var fixedHolidays = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "Jour de l'an"},
	{time.May, 1, "Fête du travail"},
	{time.May, 8, "Victoire 1945"},
	{time.July, 14, "Fête nationale"},
	{time.August, 15, "Assomption"},
	{time.November, 1, "Toussaint"},
	{time.November, 11, "Armistice"},
	{time.December, 25, "Noël"},
}

var easterOffsets = []struct {
	days int
	name string
}{
	{1, "Lundi de Pâques"},
	{39, "Ascension"},
	{50, "Lundi de Pentecôte"},
}

func holidaysIn(year int, loc *time.Location) []Holiday {
	out := make([]Holiday, 0, len(fixedHolidays)+len(easterOffsets))
	for _, f := range fixedHolidays {
		out = append(out, Holiday{Date: time.Date(year, f.month, f.day, 0, 0, 0, 0, loc), Name: f.name})
	}
	em, ed := Easter(year)
	for _, e := range easterOffsets {
		out = append(out, Holiday{Date: time.Date(year, em, ed+e.days, 0, 0, 0, 0, loc), Name: e.name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Easter returns the month and day of Easter Sunday in the Gregorian
// calendar (anonymous Gregorian algorithm).
func Easter(year int) (time.Month, int) {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Month(month), day
}
