package metrics

import (
	"math"
	"time"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/streak"
)

// FactorProvenance records the origin of each factor in a score
type FactorProvenance struct {
	Mood     Provenance `json:"mood"`
	Sleep    Provenance `json:"sleep"`
	Activity Provenance `json:"activity"`
	Social   Provenance `json:"social"`
}

// Placeholder reports whether any factor was invented
func (p FactorProvenance) Placeholder() bool {
	return p.Mood == Placeholder || p.Sleep == Placeholder ||
		p.Activity == Placeholder || p.Social == Placeholder
}

// DailyScore is a wellness score with the provenance of its factors
type DailyScore struct {
	domain.WellnessScore
	Provenance FactorProvenance `json:"provenance"`
}

// Scores returns one score per day in the window, oldest first.
// The overall score is the rounded mean of the factors that have a
// sample; a day with none scores 0.
func Scores(w Window, now time.Time, loc *time.Location, src Sources) []DailyScore {
	today := streak.Day(now, loc)
	out := make([]DailyScore, 0, w.Days())
	for i := w.Days() - 1; i >= 0; i-- {
		out = append(out, scoreDay(today.AddDate(0, 0, -i), src))
	}
	return out
}

func scoreDay(day time.Time, src Sources) DailyScore {
	var f domain.Factors
	var p FactorProvenance

	f.Mood, p.Mood = sample(src.Mood, day)
	if p.Mood == Missing {
		f.Mood, p.Mood = sample(src.MoodFallback, day)
	}
	f.Sleep, p.Sleep = sample(src.Sleep, day)
	f.Activity, p.Activity = sample(src.Activity, day)
	f.Social, p.Social = sample(src.Social, day)

	sum, n := 0, 0
	for _, pair := range []struct {
		v int
		p Provenance
	}{{f.Mood, p.Mood}, {f.Sleep, p.Sleep}, {f.Activity, p.Activity}, {f.Social, p.Social}} {
		if pair.p == Missing {
			continue
		}
		sum += pair.v
		n++
	}

	score := 0
	if n > 0 {
		score = int(math.Round(float64(sum) / float64(n)))
	}

	return DailyScore{
		WellnessScore: domain.WellnessScore{
			Date:    day.Format(domain.DateLayout),
			Score:   score,
			Factors: f,
		},
		Provenance: p,
	}
}
