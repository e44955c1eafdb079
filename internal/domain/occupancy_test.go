package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestFillRatio(t *testing.T) {
	tests := []struct {
		name   string
		status FacilityStatus
		want   float64
	}{
		{"half full", FacilityStatus{Capacity: 100, Occupancy: 50}, 0.5},
		{"empty", FacilityStatus{Capacity: 100, Occupancy: 0}, 0},
		{"over capacity is not clamped", FacilityStatus{Capacity: 40, Occupancy: 53}, 1.325},
		{"zero capacity", FacilityStatus{Capacity: 0, Occupancy: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.status.FillRatio(), 1e-9)
		})
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "low"},
		{0.49, "low"},
		{0.5, "moderate"},
		{0.79, "moderate"},
		{0.8, "high"},
		{0.99, "high"},
		{1.0, "full"},
		{1.3, "full"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestNewSnapshot(t *testing.T) {
	frozen := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { SetClock(nil) })

	facilities := map[string]FacilityStatus{"Upland": {Capacity: 65, Occupancy: 23}}
	snap := NewSnapshot(facilities)

	assert.Equal(t, frozen, snap.FetchedAt)
	assert.Equal(t, facilities, snap.Facilities)
}

func TestDefaultFacilityNames(t *testing.T) {
	assert.Len(t, DefaultFacilityNames, 10)
	assert.Equal(t, "Arcadia", DefaultFacilityNames["ARC"])
	assert.Equal(t, "Upland", DefaultFacilityNames["UPL"])

	// Display names are unique, so last-write-wins on the result map can
	// never actually collide.
	seen := make(map[string]bool, len(DefaultFacilityNames))
	for _, name := range DefaultFacilityNames {
		assert.False(t, seen[name], "duplicate display name %q", name)
		seen[name] = true
	}
}
