// Package schedule converts extracted reservation-site schedule objects into
// a normalized, time-ordered slot model.
//
// The upstream site has shipped two incompatible schedule shapes: a calendar
// form keyed by ISO date with per-record court names, and a pickup form keyed
// by YYYYMM and day-of-month with either a flat time map or per-court nesting.
// Both parse into the same []TimeSlot. Individual malformed records are
// dropped silently; a loosely-typed upstream makes them an expected condition
// rather than an error.
package schedule
