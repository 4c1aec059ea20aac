package metrics

import (
	"math/rand/v2"
	"time"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/streak"
)

// Quality labels a night's sleep, or a week of it
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityUnknown   Quality = "unknown"
)

var nightlyQualities = []Quality{QualityExcellent, QualityGood, QualityFair, QualityPoor}

// SleepSample is one night of sleep
type SleepSample struct {
	Date       string     `json:"date"`
	Hours      float64    `json:"hours"`
	Quality    Quality    `json:"quality"`
	Mood       string     `json:"mood"`
	Provenance Provenance `json:"provenance"`
}

// SleepQuality summarises the last seven nights
func SleepQuality(samples []SleepSample) Quality {
	if len(samples) == 0 {
		return QualityUnknown
	}
	recent := samples
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}

	excellent, good := 0, 0
	for _, s := range recent {
		switch s.Quality {
		case QualityExcellent:
			excellent++
		case QualityGood:
			good++
		}
	}

	switch {
	case excellent >= 3:
		return QualityExcellent
	case excellent+good >= 5:
		return QualityGood
	case excellent+good >= 3:
		return QualityFair
	}
	return QualityPoor
}

// PlaceholderSleep invents a night per day in the window, oldest first.
// There is no sleep tracker yet; every sample is marked as placeholder.
func PlaceholderSleep(w Window, now time.Time, loc *time.Location, seed uint64) []SleepSample {
	today := streak.Day(now, loc)
	out := make([]SleepSample, 0, w.Days())
	for i := w.Days() - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		r := rand.New(rand.NewPCG(seed, uint64(day.Unix())))
		out = append(out, SleepSample{
			Date:       day.Format(domain.DateLayout),
			Hours:      6 + r.Float64()*3,
			Quality:    nightlyQualities[r.IntN(len(nightlyQualities))],
			Mood:       string(domain.Moods[r.IntN(len(domain.Moods))]),
			Provenance: Placeholder,
		})
	}
	return out
}
