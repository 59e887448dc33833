package snapshot

import (
	"testing"
	"time"

	"github.com/pfrederiksen/courtwatch/internal/schedule"
)

func mkSlot(start, end string, available bool, label string) schedule.TimeSlot {
	s, _ := schedule.ParseTimeOfDay(start)
	e, _ := schedule.ParseTimeOfDay(end)
	return schedule.TimeSlot{Start: s, End: e, Available: available, Label: label}
}

func mkAvail(id, date string, slots ...schedule.TimeSlot) *schedule.Availability {
	if slots == nil {
		slots = []schedule.TimeSlot{}
	}
	return &schedule.Availability{CourtID: id, Date: date, Slots: slots}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	avail := mkAvail("abc", "2025-10-01",
		mkSlot("06:00", "07:00", true, "Court A"),
		mkSlot("07:00", "08:00", false, "Court A"),
	)
	if err := store.Save(avail); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load("abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.CourtID != "abc" || snap.Date != "2025-10-01" {
		t.Errorf("snapshot identity = (%s, %s)", snap.CourtID, snap.Date)
	}
	if len(snap.Slots) != 2 {
		t.Errorf("got %d slots, expected 2", len(snap.Slots))
	}
	if snap.TakenAt.IsZero() {
		t.Error("TakenAt not set")
	}
}

func TestLoadMissingReturnsEmpty(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap, err := store.Load("never-saved")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Slots == nil || len(snap.Slots) != 0 {
		t.Errorf("Slots = %v, expected empty non-nil", snap.Slots)
	}
}

func TestSanitizedIDs(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	avail := mkAvail("a/b:c", "2025-10-01", mkSlot("06:00", "07:00", true, ""))
	if err := store.Save(avail); err != nil {
		t.Fatalf("Save with awkward id: %v", err)
	}
	snap, err := store.Load("a/b:c")
	if err != nil || len(snap.Slots) != 1 {
		t.Errorf("Load = (%v, %v)", snap, err)
	}
}

func TestDiffNewAvailability(t *testing.T) {
	prev := &Snapshot{
		CourtID: "abc",
		Date:    "2025-10-01",
		TakenAt: time.Now(),
		Slots: []schedule.TimeSlot{
			mkSlot("06:00", "07:00", true, "Court A"),  // already available
			mkSlot("07:00", "08:00", false, "Court A"), // was booked
		},
	}
	current := mkAvail("abc", "2025-10-01",
		mkSlot("06:00", "07:00", true, "Court A"),
		mkSlot("07:00", "08:00", true, "Court A"),
		mkSlot("08:00", "09:00", true, "Court A"),
		mkSlot("09:00", "10:00", false, "Court A"),
	)

	fresh := Diff(prev, current)
	if len(fresh) != 2 {
		t.Fatalf("got %d new slots %v, expected 2", len(fresh), fresh)
	}
	if fresh[0].Start.String() != "07:00" || fresh[1].Start.String() != "08:00" {
		t.Errorf("new slots = %v", fresh)
	}
}

func TestDiffDifferentDateIsAllNew(t *testing.T) {
	prev := &Snapshot{
		CourtID: "abc",
		Date:    "2025-09-30",
		Slots:   []schedule.TimeSlot{mkSlot("06:00", "07:00", true, "")},
	}
	current := mkAvail("abc", "2025-10-01", mkSlot("06:00", "07:00", true, ""))

	fresh := Diff(prev, current)
	if len(fresh) != 1 {
		t.Errorf("got %d new slots, expected a stale-date baseline to count everything", len(fresh))
	}
}

func TestDiffNoBaseline(t *testing.T) {
	current := mkAvail("abc", "2025-10-01", mkSlot("06:00", "07:00", true, ""))
	fresh := Diff(nil, current)
	if len(fresh) != 1 {
		t.Errorf("got %d new slots with nil baseline, expected 1", len(fresh))
	}
}
