// Package browser drives a real browser against the reservation site.
//
// The site renders its schedule data with JavaScript and may interpose an
// anti-automation challenge page, so the HTTP-only path is not always enough.
// This package wraps the Playwright engine: a lazily started driver with a
// one-shot install remediation, fresh per-request sessions so sequential
// lookups do not share a browser fingerprint, a polling recovery loop that
// waits out challenge redirects, and discovery of per-court tab labels in the
// rendered page.
package browser
