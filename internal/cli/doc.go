// Package cli implements the command-line interface for courtwatch.
//
// The cli package provides the Cobra-based CLI with the courts, check, info,
// and watch commands, output formatting (text/JSON), and slot-window
// filtering. It coordinates the court, schedule, and snapshot packages to
// fetch, persist, and report on venue availability.
package cli
