// Package venue holds venue metadata and name matching.
package venue

// Venue describes one reservation-site location. ID is the upstream "K"
// identifier passed as a query parameter.
type Venue struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	District string `json:"district,omitempty"`
}
