// Package zones aggregates time spent in the five heart-rate zones from an
// irregularly sampled trackpoint sequence.
package zones

import (
	"fmt"
	"math"
	"sort"

	"github.com/noszczynski/bike-stats-sub000/internal/analysis/stops"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

// MinMovingSpeedMS is the speed below which heart-rate readings are left out
// of zone time.
const MinMovingSpeedMS = 1.66

// NumZones is the number of heart-rate zones.
const NumZones = 5

// ZoneTime is the time attributed to one zone.
type ZoneTime struct {
	Time       string  `json:"time"` // HH:MM:SS, hours keep counting past 24
	Percentage float64 `json:"percentage"`
	Seconds    float64 `json:"seconds"`
}

// Summary is the time-in-zone breakdown of one activity.
type Summary struct {
	Zone1        ZoneTime `json:"zone_1"`
	Zone2        ZoneTime `json:"zone_2"`
	Zone3        ZoneTime `json:"zone_3"`
	Zone4        ZoneTime `json:"zone_4"`
	Zone5        ZoneTime `json:"zone_5"`
	TotalSeconds float64  `json:"total_seconds"`
}

// HasData reports whether any time was classified. Percentages of an empty
// summary are all 0.
func (s Summary) HasData() bool {
	return s.TotalSeconds > 0
}

// Zones returns the five zones in order.
func (s Summary) Zones() [NumZones]ZoneTime {
	return [NumZones]ZoneTime{s.Zone1, s.Zone2, s.Zone3, s.Zone4, s.Zone5}
}

// Compute classifies samples with the default stop policy.
func Compute(samples []models.Trackpoint, b models.ZoneBoundaries) Summary {
	return ComputeWithPolicy(samples, b, stops.DefaultPolicy)
}

// ComputeWithPolicy attributes to every qualifying sample (heart rate present,
// moving) the time until the next qualifying sample, or since the previous
// one for the last sample. Gaps the policy classifies as stops count 1 s.
func ComputeWithPolicy(samples []models.Trackpoint, b models.ZoneBoundaries, p stops.Policy) Summary {
	sorted := make([]models.Trackpoint, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	qualifying := make([]int, 0, len(sorted))
	for i, s := range sorted {
		if s.HeartRateBPM != nil && s.Speed() >= MinMovingSpeedMS {
			qualifying = append(qualifying, i)
		}
	}

	var seconds [NumZones]float64
	for q, idx := range qualifying {
		current := sorted[idx]

		attributed := 1.0
		switch {
		case q+1 < len(qualifying):
			next := sorted[qualifying[q+1]]
			attributed = gapSeconds(p, current, next, next.Timestamp.Sub(current.Timestamp).Seconds())
		case q > 0:
			prev := sorted[qualifying[q-1]]
			attributed = gapSeconds(p, current, prev, current.Timestamp.Sub(prev.Timestamp).Seconds())
		}

		seconds[ZoneFor(*current.HeartRateBPM, b)-1] += attributed
	}

	return summarize(seconds)
}

func gapSeconds(p stops.Policy, current, other models.Trackpoint, diff float64) float64 {
	if p.IsLikelyStop(current, other, diff) {
		return 1
	}
	return math.Max(1, diff)
}

// ZoneFor returns the 1-based zone of a heart rate.
func ZoneFor(hr int, b models.ZoneBoundaries) int {
	switch {
	case hr < b.Zone1Max:
		return 1
	case hr <= b.Zone2Max:
		return 2
	case hr <= b.Zone3Max:
		return 3
	case hr <= b.Zone4Max:
		return 4
	default:
		return 5
	}
}

func summarize(seconds [NumZones]float64) Summary {
	var total float64
	for _, s := range seconds {
		total += s
	}

	var zones [NumZones]ZoneTime
	for i, s := range seconds {
		zones[i] = ZoneTime{Time: FormatDuration(s), Seconds: s}
		if total > 0 {
			zones[i].Percentage = math.Round(s/total*1000) / 10
		}
	}
	return Summary{
		Zone1:        zones[0],
		Zone2:        zones[1],
		Zone3:        zones[2],
		Zone4:        zones[3],
		Zone5:        zones[4],
		TotalSeconds: total,
	}
}

// FormatDuration renders seconds as HH:MM:SS without wrapping at 24 hours.
func FormatDuration(seconds float64) string {
	total := int64(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
