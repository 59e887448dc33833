package schedule

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ParseCalendar parses the calendar-form schedule object (VenuesCalendarJson)
// for the given date. The object carries a Schedule map keyed by ISO date,
// each value an array of records with court name, start, end, and status.
// A record counts as available when its status is "1" or "available"
// (case-insensitive). Records whose start or end fail to parse are dropped.
func ParseCalendar(objText string, date time.Time) ([]TimeSlot, bool) {
	var doc struct {
		Schedule map[string][]map[string]any `json:"Schedule"`
	}
	if err := json.Unmarshal([]byte(objText), &doc); err != nil || doc.Schedule == nil {
		return nil, false
	}

	records, ok := doc.Schedule[date.Format("2006-01-02")]
	if !ok {
		return []TimeSlot{}, true
	}

	slots := make([]TimeSlot, 0, len(records))
	for _, rec := range records {
		start, okS := ParseTimeOfDay(fieldString(rec, "Start", "StartTime", "S"))
		end, okE := ParseTimeOfDay(fieldString(rec, "End", "EndTime", "E"))
		if !okS || !okE || start >= end {
			continue
		}
		status := strings.ToLower(fieldString(rec, "Status", "State"))
		slots = append(slots, TimeSlot{
			Start:     start,
			End:       end,
			Available: status == "1" || status == "available",
			Label:     fieldString(rec, "CourtName", "Court", "Name"),
		})
	}
	Sort(slots)
	return slots, true
}

// ParsePickup parses the pickup-form schedule object (mmDataPickup) for the
// given date. Data is keyed by "YYYYMM" then day-of-month. The day value is
// either a flat map of time key to {S,E,D} record, an unsegmented day with
// empty labels, or a map of court key to a nested time map, labeling each
// slot "Court <key>". D == "0" means available.
func ParsePickup(objText string, date time.Time) ([]TimeSlot, bool) {
	var doc struct {
		Data map[string]map[string]json.RawMessage `json:"Data"`
	}
	if err := json.Unmarshal([]byte(objText), &doc); err != nil || doc.Data == nil {
		return nil, false
	}

	month, ok := doc.Data[date.Format("200601")]
	if !ok {
		return []TimeSlot{}, true
	}
	day, ok := month[strconv.Itoa(date.Day())]
	if !ok {
		// Some payloads zero-pad the day key.
		if day, ok = month[date.Format("02")]; !ok {
			return []TimeSlot{}, true
		}
	}

	var children map[string]json.RawMessage
	if err := json.Unmarshal(day, &children); err != nil {
		return nil, false
	}

	slots := []TimeSlot{}
	if dayIsUnsegmented(children) {
		slots = append(slots, parseTimeMap(children, "")...)
	} else {
		for courtKey, nested := range children {
			var timeMap map[string]json.RawMessage
			if err := json.Unmarshal(nested, &timeMap); err != nil {
				continue
			}
			slots = append(slots, parseTimeMap(timeMap, "Court "+courtKey)...)
		}
	}
	Sort(slots)
	return slots, true
}

// PickupHours reads the sibling _C object's SH/EH opening-hour bounds from a
// pickup-form payload. SH and EH may each be a number or a numeric string;
// anything else leaves that bound absent.
func PickupHours(objText string) OpeningHours {
	var doc struct {
		C map[string]any `json:"_C"`
	}
	if err := json.Unmarshal([]byte(objText), &doc); err != nil || doc.C == nil {
		return OpeningHours{}
	}
	return OpeningHours{
		Start: hourValue(doc.C["SH"]),
		End:   hourValue(doc.C["EH"]),
	}
}

// dayIsUnsegmented reports whether the day's first child already looks like a
// slot record, meaning both S and E are present as strings.
func dayIsUnsegmented(children map[string]json.RawMessage) bool {
	for _, raw := range children {
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			return false
		}
		_, hasS := rec["S"].(string)
		_, hasE := rec["E"].(string)
		return hasS && hasE
	}
	return false
}

func parseTimeMap(timeMap map[string]json.RawMessage, label string) []TimeSlot {
	var slots []TimeSlot
	for _, raw := range timeMap {
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		start, okS := ParseTimeOfDay(anyString(rec["S"]))
		end, okE := ParseTimeOfDay(anyString(rec["E"]))
		if !okS || !okE || start >= end {
			continue
		}
		slots = append(slots, TimeSlot{
			Start:     start,
			End:       end,
			Available: anyString(rec["D"]) == "0",
			Label:     label,
		})
	}
	return slots
}

// ObjectFields is a decoded loosely-typed upstream object offering
// case-insensitive field access.
type ObjectFields map[string]any

// DecodeObjectFields decodes an extracted object literal for field access.
func DecodeObjectFields(objText string) (ObjectFields, bool) {
	var fields ObjectFields
	if err := json.Unmarshal([]byte(objText), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// First returns the value of the first present key as a string.
func (f ObjectFields) First(keys ...string) string {
	return fieldString(f, keys...)
}

// fieldString returns the first of the named keys present in rec as a string,
// matching keys case-insensitively.
func fieldString(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		for k, v := range rec {
			if strings.EqualFold(k, key) {
				return anyString(v)
			}
		}
	}
	return ""
}

func anyString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	}
	return ""
}

func hourValue(v any) *int {
	var h int
	switch val := v.(type) {
	case float64:
		h = int(val)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		h = parsed
	default:
		return nil
	}
	// Out-of-range hours are clamped into the day rather than rejected.
	if h < 0 {
		h = 0
	}
	if h > 23 {
		h = 23
	}
	return &h
}
