// Package stops decides whether the gap between two adjacent samples is the
// rider stopping or the device sampling sparsely.
package stops

import (
	"math"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/spatial"
)

// Policy holds the classifier thresholds. The rules are always evaluated in
// the same order; only the numbers change.
type Policy struct {
	MinGapSeconds    float64 // gaps up to this are never stops
	MaxGapSeconds    float64 // gaps above this are always stops
	MinSpeedMS       float64 // both samples below this are stopped
	MinImpliedKmh    float64 // GPS-implied speed below this is stopped
	HeartRateDropBPM float64 // HR change above this ...
	HeartRateGapSecs float64 // ... over a gap above this is a rest
}

// DefaultPolicy is the policy used by IsLikelyStop.
var DefaultPolicy = Policy{
	MinGapSeconds:    5,
	MaxGapSeconds:    20,
	MinSpeedMS:       1.66,
	MinImpliedKmh:    6,
	HeartRateDropBPM: 30,
	HeartRateGapSecs: 60,
}

// IsLikelyStop classifies the gap between current and next with DefaultPolicy.
func IsLikelyStop(current, next models.Trackpoint, timeDiffSeconds float64) bool {
	return DefaultPolicy.IsLikelyStop(current, next, timeDiffSeconds)
}

// IsLikelyStop applies the rules in order; the first match wins.
func (p Policy) IsLikelyStop(current, next models.Trackpoint, timeDiffSeconds float64) bool {
	if timeDiffSeconds <= p.MinGapSeconds {
		return false
	}
	if timeDiffSeconds > p.MaxGapSeconds {
		return true
	}
	if current.Speed() < p.MinSpeedMS && next.Speed() < p.MinSpeedMS {
		return true
	}
	// Skipped without coordinates on both sides.
	if current.HasPosition() && next.HasPosition() {
		kmh := spatial.ImpliedSpeedKmh(*current.Latitude, *current.Longitude,
			*next.Latitude, *next.Longitude, timeDiffSeconds)
		if kmh < p.MinImpliedKmh {
			return true
		}
	}
	if current.HeartRateBPM != nil && next.HeartRateBPM != nil {
		// Either direction counts.
		delta := math.Abs(float64(*current.HeartRateBPM - *next.HeartRateBPM))
		if delta > p.HeartRateDropBPM && timeDiffSeconds > p.HeartRateGapSecs {
			return true
		}
	}
	return false
}
