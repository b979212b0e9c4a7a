package domain

import (
	"fmt"
	"strings"
	"time"
)

type BookingTimeKind uint8

const (
	BookingTimeUnset BookingTimeKind = iota
	BookingTimeNamedSlot
	BookingTimeRange
	BookingTimeFixed
)

type NamedSlot string

const (
	SlotMorning   NamedSlot = "morning"
	SlotAfternoon NamedSlot = "afternoon"
	SlotEvening   NamedSlot = "evening"
)

// ClockTime is a wall-clock time of day in the booking timezone.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// BookingTime is the parsed form of the free-text booking time. Exactly one of
// Slot, Start/End or Start is meaningful, depending on Kind.
type BookingTime struct {
	Kind  BookingTimeKind
	Slot  NamedSlot
	Start ClockTime
	End   ClockTime
}

func (b BookingTime) String() string {
	switch b.Kind {
	case BookingTimeNamedSlot:
		return string(b.Slot)
	case BookingTimeRange:
		return b.Start.String() + "-" + b.End.String()
	case BookingTimeFixed:
		return b.Start.String()
	}
	return ""
}

// HasInstant reports whether the booking time resolves to a fixed point in time.
// Named slots are labels only.
func (b BookingTime) HasInstant() bool {
	return b.Kind == BookingTimeRange || b.Kind == BookingTimeFixed
}

// Instant combines the booking date with the start clock time. Ranges resolve
// to their start.
func (b BookingTime) Instant(date time.Time, loc *time.Location) (time.Time, bool) {
	if !b.HasInstant() {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, b.Start.Hour, b.Start.Minute, 0, 0, loc), true
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// ParseBookingTime resolves the raw booking time once, at ingestion.
// Accepted forms: "morning"/"afternoon"/"evening", "14:30", "2:30 PM",
// "08:00-09:30", "8:00 AM - 9:30 AM". Empty input yields BookingTimeUnset.
func ParseBookingTime(raw string) (BookingTime, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return BookingTime{}, nil
	}

	switch slot := NamedSlot(strings.ToLower(s)); slot {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return BookingTime{Kind: BookingTimeNamedSlot, Slot: slot}, nil
	}

	s = strings.ReplaceAll(s, "–", "-")
	if start, end, ok := strings.Cut(s, "-"); ok {
		from, err := parseClock(start)
		if err != nil {
			return BookingTime{}, err
		}
		to, err := parseClock(end)
		if err != nil {
			return BookingTime{}, err
		}
		return BookingTime{Kind: BookingTimeRange, Start: from, End: to}, nil
	}

	at, err := parseClock(s)
	if err != nil {
		return BookingTime{}, err
	}
	return BookingTime{Kind: BookingTimeFixed, Start: at}, nil
}

func parseClock(raw string) (ClockTime, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return ClockTime{}, &ValidationError{Field: "booking_time", Message: fmt.Sprintf("unrecognised time %q", raw)}
}

// NormalizeBookingDate keeps only the calendar date, pinned to UTC midnight.
func NormalizeBookingDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ============= DEADLINE =============

type Urgency string

const (
	UrgencyUnscheduled Urgency = "unscheduled"
	UrgencyOverdue     Urgency = "overdue"
	UrgencyDueSoon     Urgency = "due_soon"
	UrgencyDueLater    Urgency = "due_later"
)

const DueSoonThreshold = time.Hour

type Deadline struct {
	At        time.Time
	Remaining time.Duration
	Urgency   Urgency
}

// ClassifyUrgency: overdue at or past the deadline, due soon under an hour.
func ClassifyUrgency(remaining time.Duration) Urgency {
	switch {
	case remaining <= 0:
		return UrgencyOverdue
	case remaining < DueSoonThreshold:
		return UrgencyDueSoon
	default:
		return UrgencyDueLater
	}
}

// ComputeDeadline returns the signed time until the booking starts. Orders
// without a date or with a named slot are UrgencyUnscheduled.
func ComputeDeadline(date *time.Time, bt BookingTime, now time.Time, loc *time.Location) Deadline {
	if date == nil {
		return Deadline{Urgency: UrgencyUnscheduled}
	}
	at, ok := bt.Instant(*date, loc)
	if !ok {
		return Deadline{Urgency: UrgencyUnscheduled}
	}
	remaining := at.Sub(now)
	return Deadline{At: at, Remaining: remaining, Urgency: ClassifyUrgency(remaining)}
}
