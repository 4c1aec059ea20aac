package metrics

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/streak"
)

// Provenance says where a factor score came from
type Provenance string

const (
	Measured    Provenance = "measured"
	Fixed       Provenance = "fixed"
	Placeholder Provenance = "placeholder"
	Missing     Provenance = "missing"
)

// FactorSource yields a 0..100 score for a calendar day
type FactorSource interface {
	Sample(day time.Time) (int, bool)
	Provenance() Provenance
}

// MoodSource scores a day from the mood entries logged on it
type MoodSource struct {
	loc   *time.Location
	byDay map[time.Time][]int
}

// NewMoodSource indexes entries by calendar day in loc
func NewMoodSource(entries []domain.MoodEntry, loc *time.Location) *MoodSource {
	src := &MoodSource{loc: loc, byDay: make(map[time.Time][]int)}
	for _, e := range entries {
		day := streak.Day(e.Date, loc)
		src.byDay[day] = append(src.byDay[day], e.Intensity)
	}
	return src
}

// Sample returns mean intensity scaled to 0..100
func (s *MoodSource) Sample(day time.Time) (int, bool) {
	values := s.byDay[streak.Day(day, s.loc)]
	if len(values) == 0 {
		return 0, false
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return clamp(int(math.Round(float64(sum) / float64(len(values)) * 10))), true
}

func (s *MoodSource) Provenance() Provenance { return Measured }

// FixedSource returns the same score for every day
type FixedSource struct {
	Score int
}

func (s FixedSource) Sample(time.Time) (int, bool) { return clamp(s.Score), true }

func (s FixedSource) Provenance() Provenance { return Fixed }

// PlaceholderSource invents a score in [Min, Max] for days with no real
// signal. Values are stable per day for a given seed. Never treat them as
// measurements.
type PlaceholderSource struct {
	Min, Max int
	Seed     uint64
}

func (s PlaceholderSource) Sample(day time.Time) (int, bool) {
	lo, hi := clamp(s.Min), clamp(s.Max)
	if hi < lo {
		lo, hi = hi, lo
	}
	r := rand.New(rand.NewPCG(s.Seed, uint64(day.Unix())))
	return lo + r.IntN(hi-lo+1), true
}

func (s PlaceholderSource) Provenance() Provenance { return Placeholder }

// Sources wires one source per factor. Nil sources produce missing factors.
type Sources struct {
	Mood     FactorSource
	Sleep    FactorSource
	Activity FactorSource
	Social   FactorSource

	// MoodFallback fills days without a mood sample
	MoodFallback FactorSource
}

// PlaceholderSources returns the demo ranges for every non-mood factor
// and a placeholder mood fallback.
func PlaceholderSources(mood FactorSource, seed uint64) Sources {
	return Sources{
		Mood:         mood,
		MoodFallback: PlaceholderSource{Min: 60, Max: 100, Seed: seed},
		Sleep:        PlaceholderSource{Min: 70, Max: 100, Seed: seed + 1},
		Activity:     PlaceholderSource{Min: 50, Max: 100, Seed: seed + 2},
		Social:       PlaceholderSource{Min: 60, Max: 100, Seed: seed + 3},
	}
}

func sample(src FactorSource, day time.Time) (int, Provenance) {
	if src == nil {
		return 0, Missing
	}
	v, ok := src.Sample(day)
	if !ok {
		return 0, Missing
	}
	return v, src.Provenance()
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
