package metrics

import (
	"time"

	"github.com/pbaille/wellness/internal/domain"
)

// Score tiers
const (
	ExcellentScore = 80
	GoodScore      = 60
)

// Tier names the band a score falls in
func Tier(score int) string {
	switch {
	case score >= ExcellentScore:
		return "excellent"
	case score >= GoodScore:
		return "good"
	}
	return "needs improvement"
}

// Insights picks template messages for the trend, sleep and score.
// The score message is always last and always present.
func Insights(trend Trend, sleep Quality, score int) []string {
	var out []string

	switch trend {
	case Improving:
		out = append(out, "Your mood has been improving over the past week! Keep up the positive momentum.")
	case Declining:
		out = append(out, "Your mood has been declining. Consider reaching out to friends or trying some self-care activities.")
	}

	switch sleep {
	case QualityPoor:
		out = append(out, "Your sleep quality could improve. Try establishing a consistent bedtime routine.")
	case QualityExcellent:
		out = append(out, "Great sleep quality! This is likely contributing to your overall wellness.")
	}

	switch Tier(score) {
	case "excellent":
		out = append(out, "Excellent wellness score! You're doing great at maintaining balance in your life.")
	case "good":
		out = append(out, "Good wellness score. Small improvements in any area could boost your overall score.")
	default:
		out = append(out, "Your wellness score suggests some areas for improvement. Focus on one area at a time.")
	}
	return out
}

// Report is the analytics view for one window
type Report struct {
	Window       string        `json:"window"`
	Entries      int           `json:"entries"`
	Trend        Trend         `json:"trend"`
	Distribution []MoodShare   `json:"distribution"`
	Scores       []DailyScore  `json:"scores"`
	CurrentScore int           `json:"currentScore"`
	Current      *DailyScore   `json:"current,omitempty"`
	SleepQuality Quality       `json:"sleepQuality"`
	Sleep        []SleepSample `json:"sleep"`
	Insights     []string      `json:"insights"`
	// Placeholder is set when any number in the report was invented
	Placeholder bool `json:"placeholder"`
}

// Build aggregates mood entries, sleep samples and factor sources into a
// report. It has no failure modes: missing data gives neutral values.
func Build(moods []domain.MoodEntry, sleep []SleepSample, w Window, now time.Time, loc *time.Location, src Sources) Report {
	windowed := Filter(moods, w, now, loc)
	scores := Scores(w, now, loc, src)

	r := Report{
		Window:       w.String(),
		Entries:      len(windowed),
		Trend:        MoodTrend(windowed),
		Distribution: Distribution(windowed),
		Scores:       scores,
		SleepQuality: SleepQuality(sleep),
		Sleep:        sleep,
	}
	if r.Sleep == nil {
		r.Sleep = []SleepSample{}
	}

	if len(scores) > 0 {
		latest := scores[len(scores)-1]
		r.Current = &latest
		r.CurrentScore = latest.Score
	}
	for _, s := range scores {
		if s.Provenance.Placeholder() {
			r.Placeholder = true
			break
		}
	}
	for _, s := range sleep {
		if s.Provenance == Placeholder {
			r.Placeholder = true
			break
		}
	}

	r.Insights = Insights(r.Trend, r.SleepQuality, r.CurrentScore)
	return r
}
