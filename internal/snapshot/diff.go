package snapshot

import (
	"fmt"

	"github.com/pfrederiksen/courtwatch/internal/schedule"
)

// Diff returns the slots in current that became available since prev was
// taken: available now, and either absent or unavailable before. A snapshot
// for a different date offers no baseline, so every available slot counts as
// new.
func Diff(prev *Snapshot, current *schedule.Availability) []schedule.TimeSlot {
	sameDate := prev != nil && prev.Date == current.Date

	before := make(map[string]bool)
	if sameDate {
		for _, s := range prev.Slots {
			before[slotKey(s)] = s.Available
		}
	}

	fresh := []schedule.TimeSlot{}
	for _, s := range current.Slots {
		if !s.Available {
			continue
		}
		if !before[slotKey(s)] {
			fresh = append(fresh, s)
		}
	}
	return fresh
}

func slotKey(s schedule.TimeSlot) string {
	return fmt.Sprintf("%s|%d|%d", s.Label, s.Start, s.End)
}
