package schedule

// Clamp filters slots to the venue's declared opening window. The minimum
// start is SH:00 (midnight when absent) and the maximum end is EH:00 (23:59
// when absent). With both bounds absent every slot passes.
func Clamp(slots []TimeSlot, hours OpeningHours) []TimeSlot {
	if hours.Start == nil && hours.End == nil {
		return slots
	}

	minStart := TimeOfDay(0)
	if hours.Start != nil {
		minStart = TimeOfDay(*hours.Start * 60)
	}
	maxEnd := TimeOfDay(23*60 + 59)
	if hours.End != nil {
		maxEnd = TimeOfDay(*hours.End * 60)
	}

	kept := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Start >= minStart && s.End <= maxEnd {
			kept = append(kept, s)
		}
	}
	return kept
}
