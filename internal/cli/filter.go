package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/courtwatch/internal/schedule"
	"github.com/pfrederiksen/courtwatch/internal/venue"
)

// cloneAvailability copies an availability so window filtering never touches
// the value a provider keeps in its cache.
func cloneAvailability(a *schedule.Availability) *schedule.Availability {
	clone := *a
	clone.Slots = append([]schedule.TimeSlot(nil), a.Slots...)
	return &clone
}

// filterWindow drops slots outside the [from, to] window. Empty bounds are
// open; malformed bounds are an error rather than a silent no-op.
func filterWindow(slots []schedule.TimeSlot, from, to string) ([]schedule.TimeSlot, error) {
	var min, max schedule.TimeOfDay
	hasMin, hasMax := false, false

	if from != "" {
		t, ok := schedule.ParseTimeOfDay(from)
		if !ok {
			return nil, fmt.Errorf("invalid --from time %q (want HH:MM)", from)
		}
		min, hasMin = t, true
	}
	if to != "" {
		t, ok := schedule.ParseTimeOfDay(to)
		if !ok {
			return nil, fmt.Errorf("invalid --to time %q (want HH:MM)", to)
		}
		max, hasMax = t, true
	}
	if !hasMin && !hasMax {
		return slots, nil
	}

	kept := make([]schedule.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if hasMin && s.Start < min {
			continue
		}
		if hasMax && s.End > max {
			continue
		}
		kept = append(kept, s)
	}
	return kept, nil
}

// sortVenues orders venues by district, then name, then id.
func sortVenues(venues []venue.Venue) {
	sort.Slice(venues, func(i, j int) bool {
		if venues[i].District != venues[j].District {
			return venues[i].District < venues[j].District
		}
		ni := strings.ToLower(venues[i].Name)
		nj := strings.ToLower(venues[j].Name)
		if ni != nj {
			return ni < nj
		}
		return venues[i].ID < venues[j].ID
	})
}
