package schedule

import "testing"

func slot(start, end string) TimeSlot {
	s, _ := ParseTimeOfDay(start)
	e, _ := ParseTimeOfDay(end)
	return TimeSlot{Start: s, End: e, Available: true}
}

func TestClamp(t *testing.T) {
	slots := []TimeSlot{
		slot("05:00", "06:00"),
		slot("06:00", "07:00"),
		slot("20:00", "21:00"),
		slot("21:00", "22:00"),
	}
	hours := OpeningHours{Start: intPtr(6), End: intPtr(21)}

	kept := Clamp(slots, hours)
	if len(kept) != 2 {
		t.Fatalf("kept %d slots, expected 2", len(kept))
	}
	if kept[0].Start.String() != "06:00" {
		t.Errorf("first kept slot starts %s, expected 06:00", kept[0].Start)
	}
	if kept[1].End.String() != "21:00" {
		t.Errorf("last kept slot ends %s, expected 21:00", kept[1].End)
	}
}

func TestClampNoBounds(t *testing.T) {
	slots := []TimeSlot{slot("00:00", "01:00"), slot("23:00", "23:30")}

	kept := Clamp(slots, OpeningHours{})
	if len(kept) != len(slots) {
		t.Errorf("kept %d slots, expected identity with both bounds absent", len(kept))
	}
}

func TestClampStartOnly(t *testing.T) {
	slots := []TimeSlot{slot("05:00", "06:00"), slot("23:00", "23:59")}

	kept := Clamp(slots, OpeningHours{Start: intPtr(6)})
	if len(kept) != 1 || kept[0].Start.String() != "23:00" {
		t.Errorf("kept %v, expected only the late slot (end bound defaults to 23:59)", kept)
	}
}

func TestClampEndOnly(t *testing.T) {
	slots := []TimeSlot{slot("05:00", "06:00"), slot("21:00", "22:00")}

	kept := Clamp(slots, OpeningHours{End: intPtr(21)})
	if len(kept) != 1 || kept[0].Start.String() != "05:00" {
		t.Errorf("kept %v, expected only the early slot", kept)
	}
}

func TestClampEmpty(t *testing.T) {
	kept := Clamp([]TimeSlot{}, OpeningHours{Start: intPtr(6), End: intPtr(21)})
	if len(kept) != 0 {
		t.Errorf("kept %d slots from an empty input", len(kept))
	}
}
