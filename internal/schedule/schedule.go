package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// TimeOfDay is minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" or "HHMM" into minutes since midnight.
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	var h, m int
	switch {
	case len(s) == 5 && s[2] == ':':
		var err1, err2 error
		h, err1 = strconv.Atoi(s[0:2])
		m, err2 = strconv.Atoi(s[3:5])
		if err1 != nil || err2 != nil {
			return 0, false
		}
	case len(s) == 4:
		var err1, err2 error
		h, err1 = strconv.Atoi(s[0:2])
		m, err2 = strconv.Atoi(s[2:4])
		if err1 != nil || err2 != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return TimeOfDay(h*60 + m), true
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// TimeSlot is one bookable interval within a day. Label carries the court
// identifier when the upstream data is segmented per court, and is empty for
// day-level aggregates.
type TimeSlot struct {
	Start     TimeOfDay `json:"start"`
	End       TimeOfDay `json:"end"`
	Available bool      `json:"available"`
	Label     string    `json:"label,omitempty"`
}

// Availability is the normalized result for one (court, date) request.
// Slots is never nil. Partial marks a degraded result, such as an anti-bot
// wait that timed out before the page finished rendering.
type Availability struct {
	CourtID string     `json:"court_id"`
	Date    string     `json:"date"` // YYYY-MM-DD
	Slots   []TimeSlot `json:"slots"`
	Partial bool       `json:"partial,omitempty"`
}

// NewAvailability creates an empty availability for id on date.
func NewAvailability(id string, date time.Time) *Availability {
	return &Availability{
		CourtID: id,
		Date:    date.Format("2006-01-02"),
		Slots:   []TimeSlot{},
	}
}

// OpeningHours bounds a venue's bookable window. A nil hour means the bound
// is absent and no clamping applies on that side.
type OpeningHours struct {
	Start *int
	End   *int
}

// PreferLabeled favors per-court-labeled slots over an unlabeled day-level
// aggregate: when both exist, the unlabeled leftovers are dropped. A list
// that is wholly unlabeled (or wholly labeled) passes through unchanged.
func PreferLabeled(slots []TimeSlot) []TimeSlot {
	hasLabeled := false
	for _, s := range slots {
		if s.Label != "" {
			hasLabeled = true
			break
		}
	}
	if !hasLabeled {
		return slots
	}
	kept := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Label != "" {
			kept = append(kept, s)
		}
	}
	return kept
}

// Sort orders slots ascending by start time, then label, then end time.
func Sort(slots []TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start != slots[j].Start {
			return slots[i].Start < slots[j].Start
		}
		if slots[i].Label != slots[j].Label {
			return slots[i].Label < slots[j].Label
		}
		return slots[i].End < slots[j].End
	})
}
