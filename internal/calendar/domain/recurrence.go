package domain

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"
)

// Recurrence errors.
var (
	ErrInvalidRecurrenceType     = errors.New("invalid recurrence type")
	ErrInvalidRecurrenceInterval = errors.New("recurrence interval must be positive")
)

// RecurrenceType is the repetition unit of a recurrence pattern.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// IsValid checks if the recurrence type is valid.
func (t RecurrenceType) IsValid() bool {
	switch t {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

// Recurrence describes how a local event repeats. Remote events arrive from
// the provider with recurring instances already expanded, so patterns apply
// to local events only.
type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"`
	Until    *time.Time     `json:"until,omitempty"`
	Count    int            `json:"count,omitempty"`
}

// Validate checks the pattern for well-formedness.
func (r Recurrence) Validate() error {
	if !r.Type.IsValid() {
		return ErrInvalidRecurrenceType
	}
	if r.Interval <= 0 {
		return ErrInvalidRecurrenceInterval
	}
	return nil
}

func (r Recurrence) frequency() rrule.Frequency {
	switch r.Type {
	case RecurrenceWeekly:
		return rrule.WEEKLY
	case RecurrenceMonthly:
		return rrule.MONTHLY
	case RecurrenceYearly:
		return rrule.YEARLY
	default:
		return rrule.DAILY
	}
}

// RRuleString renders the pattern in iCalendar RRULE form for the provider
// API.
func (r Recurrence) RRuleString() string {
	opt := rrule.ROption{
		Freq:     r.frequency(),
		Interval: r.Interval,
	}
	if r.Until != nil {
		opt.Until = *r.Until
	}
	if r.Count > 0 {
		opt.Count = r.Count
	}
	return "RRULE:" + opt.RRuleString()
}

// ExpandOccurrences materializes virtual occurrences of a recurring local
// event within [from, to]. The base occurrence at the event's own start is
// excluded; the caller already has the stored event. Remote and
// non-recurring events expand to nothing.
func ExpandOccurrences(e *Event, from, to time.Time) []*Event {
	if e.recurrence == nil || e.IsRemote() {
		return nil
	}
	if err := e.recurrence.Validate(); err != nil {
		return nil
	}

	opt := rrule.ROption{
		Freq:     e.recurrence.frequency(),
		Interval: e.recurrence.Interval,
		Dtstart:  e.startAt,
	}
	if e.recurrence.Until != nil {
		opt.Until = *e.recurrence.Until
	}
	if e.recurrence.Count > 0 {
		opt.Count = e.recurrence.Count
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}

	var occurrences []*Event
	for _, t := range rule.Between(from, to, true) {
		if t.Equal(e.startAt) {
			continue
		}
		occurrences = append(occurrences, e.cloneOccurrence(t))
	}
	return occurrences
}
