// Package snapshot provides JSON-based persistence of the last seen slot set
// per venue, enabling "what opened up since I last checked" diffing.
//
// Snapshots are stored one file per venue (snapshot_ID.json) under a data
// directory, with ~ expanded to the user's home.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/courtwatch/internal/schedule"
)

// Snapshot is the persisted slot set for one (venue, date).
type Snapshot struct {
	CourtID string              `json:"court_id"`
	Date    string              `json:"date"`
	TakenAt time.Time           `json:"taken_at"`
	Slots   []schedule.TimeSlot `json:"slots"`
}

// Store reads and writes snapshots under a data directory.
type Store struct {
	dataDir string
}

// New creates a Store, expanding a leading ~ and creating the directory.
func New(dataDir string) (*Store, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir}, nil
}

func (s *Store) snapshotPath(id string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", sanitize(id)))
}

// Load returns the stored snapshot for id, or an empty one when none exists.
func (s *Store) Load(id string) (*Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{CourtID: id, Slots: []schedule.TimeSlot{}}, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Slots == nil {
		snap.Slots = []schedule.TimeSlot{}
	}
	return &snap, nil
}

// Save writes the availability as the new snapshot for its venue.
func (s *Store) Save(avail *schedule.Availability) error {
	snap := Snapshot{
		CourtID: avail.CourtID,
		Date:    avail.Date,
		TakenAt: time.Now().UTC(),
		Slots:   avail.Slots,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(avail.CourtID), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// sanitize keeps venue ids safe as filename components.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, id)
}
