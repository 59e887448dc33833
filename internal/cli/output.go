package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/courtwatch/internal/schedule"
	"github.com/pfrederiksen/courtwatch/internal/venue"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// CheckResult is the printable outcome of a check or watch run. NewSlots is
// nil for plain checks and non-nil (possibly empty) after a snapshot diff.
type CheckResult struct {
	CheckedAt    time.Time              `json:"checked_at"`
	Venue        venue.Venue            `json:"venue"`
	Availability *schedule.Availability `json:"availability"`
	NewSlots     []schedule.TimeSlot    `json:"new_slots,omitempty"`
}

// WriteCourts writes the venue listing in the specified format
func WriteCourts(w io.Writer, venues []venue.Venue, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, venues)
	}
	if len(venues) == 0 {
		fmt.Fprintln(w, "No venues found.")
		return nil
	}
	for _, v := range venues {
		fmt.Fprintf(w, "%s  %s", v.ID, v.Name)
		if v.District != "" {
			fmt.Fprintf(w, " (%s)", v.District)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\nTotal: %d venues\n", len(venues))
	return nil
}

// WriteInfo writes one venue's details in the specified format
func WriteInfo(w io.Writer, v *venue.Venue, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, v)
	}
	fmt.Fprintf(w, "ID:       %s\n", v.ID)
	fmt.Fprintf(w, "Name:     %s\n", v.Name)
	if v.Address != "" {
		fmt.Fprintf(w, "Address:  %s\n", v.Address)
	}
	if v.District != "" {
		fmt.Fprintf(w, "District: %s\n", v.District)
	}
	return nil
}

// WriteCheck writes an availability result in the specified format
func WriteCheck(w io.Writer, result *CheckResult, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}
	avail := result.Availability
	fmt.Fprintf(w, "%s on %s:\n", result.Venue.Name, avail.Date)
	if avail.Partial {
		fmt.Fprintln(w, "  (partial result; the page did not finish loading)")
	}
	writeSlots(w, avail.Slots, verbose)
	return nil
}

// WriteWatch writes a watch result in the specified format
func WriteWatch(w io.Writer, result *CheckResult, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}
	avail := result.Availability
	if len(result.NewSlots) == 0 {
		fmt.Fprintf(w, "No new slots at %s on %s.\n", result.Venue.Name, avail.Date)
		return nil
	}
	fmt.Fprintf(w, "%s on %s:\n", result.Venue.Name, avail.Date)
	for _, s := range result.NewSlots {
		fmt.Fprintf(w, "  NEW: %s\n", formatSlot(s))
	}
	fmt.Fprintf(w, "\nTotal: %d new slots\n", len(result.NewSlots))
	return nil
}

// writeJSON outputs a value as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeSlots(w io.Writer, slots []schedule.TimeSlot, verbose bool) {
	shown := 0
	for _, s := range slots {
		if !s.Available && !verbose {
			continue
		}
		marker := "OPEN"
		if !s.Available {
			marker = "full"
		}
		fmt.Fprintf(w, "  %s  %s\n", marker, formatSlot(s))
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(w, "  no available slots")
		return
	}
	fmt.Fprintf(w, "\nTotal: %d slots\n", shown)
}

func formatSlot(s schedule.TimeSlot) string {
	if s.Label != "" {
		return fmt.Sprintf("%s-%s %s", s.Start, s.End, s.Label)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
