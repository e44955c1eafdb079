package domain

import "time"

// FacilityStatus holds one gym's occupancy figures as reported by the
// portal. Immutable once parsed.
type FacilityStatus struct {
	Capacity  int `json:"capacity"`
	Occupancy int `json:"occupancy"`
}

// FillRatio returns occupancy as a fraction of capacity. Zero-capacity
// facilities report 0 rather than dividing by zero. The ratio is not
// clamped; the portal can report counts above capacity.
func (f FacilityStatus) FillRatio() float64 {
	if f.Capacity <= 0 {
		return 0
	}
	return float64(f.Occupancy) / float64(f.Capacity)
}

// Band maps a fill ratio to a coarse crowding label, used for table
// coloring and as a metrics label.
func Band(ratio float64) string {
	switch {
	case ratio < 0.5:
		return "low"
	case ratio < 0.8:
		return "moderate"
	case ratio < 1.0:
		return "high"
	default:
		return "full"
	}
}

// Snapshot is the result of one fetch cycle: display name → status, plus
// the time the page was fetched.
type Snapshot struct {
	Facilities map[string]FacilityStatus `json:"facilities"`
	FetchedAt  time.Time                 `json:"fetched_at"`
}

// NewSnapshot stamps an extracted mapping with the current time from the
// package clock.
func NewSnapshot(facilities map[string]FacilityStatus) Snapshot {
	return Snapshot{
		Facilities: facilities,
		FetchedAt:  clock.Now().UTC(),
	}
}

// DefaultFacilityNames maps the portal's facility codes to display names for
// the ten Hangar 18 locations of the reference deployment. The table is
// configuration: callers may pass their own mapping to Extract without
// touching parser logic.
var DefaultFacilityNames = map[string]string{
	"ARC": "Arcadia",
	"ERV": "East Riverside",
	"HDS": "Hawthorne",
	"LON": "Long Beach",
	"MVJ": "Mission Viejo",
	"RCU": "Rancho Cucamonga",
	"RIV": "Riverside",
	"SCL": "San Clemente",
	"SPB": "South Bay",
	"UPL": "Upland",
}
