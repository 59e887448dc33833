// Package court exposes court availability lookups over interchangeable
// providers.
//
// A Provider answers three questions: which venues exist, what slots a venue
// has on a date, and what a venue's metadata is. "No data" is an ordinary
// answer (an Availability with an empty slot list), never an error. The only
// error a provider surfaces for a well-formed request is an unusable
// automation engine on the browser path, which indicates an environment
// defect rather than upstream absence.
package court

import (
	"context"
	"time"

	"github.com/pfrederiksen/courtwatch/internal/schedule"
	"github.com/pfrederiksen/courtwatch/internal/venue"
)

// Provider is the consumer contract shared by the HTTP, browser, mock, and
// open-data implementations.
type Provider interface {
	// ListCourts returns the venues the provider knows about. An empty
	// list is a legitimate answer.
	ListCourts(ctx context.Context) ([]venue.Venue, error)

	// GetAvailability returns the normalized slot list for id on date.
	// The result is never nil on a nil error and its Slots is never nil.
	GetAvailability(ctx context.Context, id string, date time.Time) (*schedule.Availability, error)

	// GetVenueInfo returns venue metadata, or false when none is known.
	GetVenueInfo(ctx context.Context, id string) (*venue.Venue, bool)
}

// availKey is the compound cache key for one (venue, date) lookup.
func availKey(id string, date time.Time) string {
	return id + "|" + date.Format("2006-01-02")
}

// allUnlabeled reports whether no slot carries a court label, meaning the
// day-level response was unsegmented.
func allUnlabeled(slots []schedule.TimeSlot) bool {
	for _, s := range slots {
		if s.Label != "" {
			return false
		}
	}
	return true
}
