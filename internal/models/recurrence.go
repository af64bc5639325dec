package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// RecurrenceType is the stored discriminator of a habit's schedule.
type RecurrenceType string

const (
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceWeekdays RecurrenceType = "weekdays"
	RecurrenceWeekends RecurrenceType = "weekends"
	RecurrenceCustom   RecurrenceType = "custom"
)

// Recurrence decides which calendar days a habit is due. The set of
// implementations is closed: Daily, Weekdays, Weekends and CustomDays.
type Recurrence interface {
	Type() RecurrenceType
	recurrence()
}

// Daily is due every day.
type Daily struct{}

// Weekdays is due Monday through Friday.
type Weekdays struct{}

// Weekends is due Saturday and Sunday.
type Weekends struct{}

// CustomDays is due on the listed weekdays only. An empty set is never due.
type CustomDays struct {
	Days []time.Weekday
}

func (Daily) Type() RecurrenceType      { return RecurrenceDaily }
func (Weekdays) Type() RecurrenceType   { return RecurrenceWeekdays }
func (Weekends) Type() RecurrenceType   { return RecurrenceWeekends }
func (CustomDays) Type() RecurrenceType { return RecurrenceCustom }

func (Daily) recurrence()      {}
func (Weekdays) recurrence()   {}
func (Weekends) recurrence()   {}
func (CustomDays) recurrence() {}

// Has reports whether wd is one of the custom days.
func (c CustomDays) Has(wd time.Weekday) bool {
	for _, d := range c.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// IsScheduled reports whether a habit with rule r is due on date.
func IsScheduled(r Recurrence, date time.Time) bool {
	wd := date.Weekday()
	switch rule := r.(type) {
	case Daily:
		return true
	case Weekdays:
		return wd >= time.Monday && wd <= time.Friday
	case Weekends:
		return wd == time.Saturday || wd == time.Sunday
	case CustomDays:
		return rule.Has(wd)
	default:
		return false
	}
}

// NewRecurrence builds a rule from API input. Out of range weekdays are dropped.
func NewRecurrence(t RecurrenceType, days []int) Recurrence {
	switch t {
	case RecurrenceWeekdays:
		return Weekdays{}
	case RecurrenceWeekends:
		return Weekends{}
	case RecurrenceCustom:
		return CustomDays{Days: normalizeWeekdays(days)}
	default:
		return Daily{}
	}
}

// DecodeRecurrence rebuilds a rule from its stored form. A custom rule whose
// day list is missing or unreadable decodes to an empty CustomDays.
func DecodeRecurrence(t RecurrenceType, customDays *string) Recurrence {
	if t != RecurrenceCustom {
		return NewRecurrence(t, nil)
	}
	if customDays == nil || *customDays == "" {
		return CustomDays{}
	}
	var days []int
	if err := json.Unmarshal([]byte(*customDays), &days); err != nil {
		return CustomDays{}
	}
	return CustomDays{Days: normalizeWeekdays(days)}
}

// EncodeCustomDays returns the stored JSON form of r's day list, or nil when
// r is not a non-empty custom rule.
func EncodeCustomDays(r Recurrence) *string {
	c, ok := r.(CustomDays)
	if !ok || len(c.Days) == 0 {
		return nil
	}
	days := make([]int, len(c.Days))
	for i, d := range c.Days {
		days[i] = int(d)
	}
	b, _ := json.Marshal(days)
	s := string(b)
	return &s
}

// WeekdayInts lists the custom days of r, or nil for other rules.
func WeekdayInts(r Recurrence) []int {
	c, ok := r.(CustomDays)
	if !ok {
		return nil
	}
	out := make([]int, len(c.Days))
	for i, d := range c.Days {
		out[i] = int(d)
	}
	return out
}

// ScheduleDisplay describes r for humans.
func ScheduleDisplay(r Recurrence) string {
	switch rule := r.(type) {
	case Daily:
		return "Every day"
	case Weekdays:
		return "Weekdays (Mon-Fri)"
	case Weekends:
		return "Weekends (Sat-Sun)"
	case CustomDays:
		if len(rule.Days) == 0 {
			return "Custom schedule"
		}
		names := make([]string, len(rule.Days))
		for i, d := range rule.Days {
			names[i] = d.String()[:3]
		}
		return strings.Join(names, ", ")
	default:
		return "Custom schedule"
	}
}

func normalizeWeekdays(days []int) []time.Weekday {
	seen := make(map[int]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, time.Weekday(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
