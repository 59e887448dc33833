package court

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/courtwatch/internal/schedule"
	"github.com/pfrederiksen/courtwatch/internal/venue"
)

// MockProvider serves fixture data from a directory: venues.json for the
// listing and availability_<id>_<date>.json per lookup. Used for development
// and demos without touching the upstream site.
type MockProvider struct {
	dir string
}

// NewMock creates a mock provider over dir.
func NewMock(dir string) *MockProvider {
	return &MockProvider{dir: dir}
}

func (p *MockProvider) ListCourts(ctx context.Context) ([]venue.Venue, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, "venues.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return []venue.Venue{}, nil
		}
		return nil, fmt.Errorf("reading venues fixture: %w", err)
	}

	var venues []venue.Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, fmt.Errorf("parsing venues fixture: %w", err)
	}
	return venues, nil
}

func (p *MockProvider) GetAvailability(ctx context.Context, id string, date time.Time) (*schedule.Availability, error) {
	name := fmt.Sprintf("availability_%s_%s.json", id, date.Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil {
		// Missing fixture is ordinary "no data".
		return schedule.NewAvailability(id, date), nil
	}

	var avail schedule.Availability
	if err := json.Unmarshal(data, &avail); err != nil {
		return schedule.NewAvailability(id, date), nil
	}
	if avail.Slots == nil {
		avail.Slots = []schedule.TimeSlot{}
	}
	schedule.Sort(avail.Slots)
	return &avail, nil
}

func (p *MockProvider) GetVenueInfo(ctx context.Context, id string) (*venue.Venue, bool) {
	venues, err := p.ListCourts(ctx)
	if err != nil {
		return nil, false
	}
	for i := range venues {
		if venues[i].ID == id {
			return &venues[i], true
		}
	}
	return nil, false
}
