package metrics

import (
	"sort"

	"github.com/pbaille/wellness/internal/domain"
)

// Trend labels the direction of recent mood intensity
type Trend string

const (
	Improving Trend = "improving"
	Declining Trend = "declining"
	Stable    Trend = "stable"
)

const (
	trendSample = 7
	trendMargin = 0.5
)

// MoodTrend compares mean intensity of the older and newer halves of the
// last seven entries.
func MoodTrend(entries []domain.MoodEntry) Trend {
	if len(entries) < 2 {
		return Stable
	}

	recent := chronological(entries)
	if len(recent) > trendSample {
		recent = recent[len(recent)-trendSample:]
	}

	half := len(recent) / 2
	first := meanIntensity(recent[:half])
	second := meanIntensity(recent[half:])

	switch {
	case second > first+trendMargin:
		return Improving
	case second < first-trendMargin:
		return Declining
	}
	return Stable
}

// MoodShare is one row of the mood distribution
type MoodShare struct {
	Mood       domain.Mood `json:"mood"`
	Count      int         `json:"count"`
	Percentage float64     `json:"percentage"`
}

// Distribution counts entries per mood, most frequent first
func Distribution(entries []domain.MoodEntry) []MoodShare {
	if len(entries) == 0 {
		return []MoodShare{}
	}

	counts := make(map[domain.Mood]int)
	for _, e := range entries {
		counts[e.Mood]++
	}

	shares := make([]MoodShare, 0, len(counts))
	total := float64(len(entries))
	for mood, n := range counts {
		shares = append(shares, MoodShare{
			Mood:       mood,
			Count:      n,
			Percentage: float64(n) / total * 100,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Mood < shares[j].Mood
	})
	return shares
}

func chronological(entries []domain.MoodEntry) []domain.MoodEntry {
	out := make([]domain.MoodEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func meanIntensity(entries []domain.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Intensity
	}
	return float64(sum) / float64(len(entries))
}
