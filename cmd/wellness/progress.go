package main

import (
	"fmt"
	"strings"

	"github.com/pbaille/wellness/internal/achievement"
	"github.com/pbaille/wellness/internal/metrics"
	"github.com/spf13/cobra"
)

func progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "progress",
		Aliases: []string{"streak"},
		Short:   "Show streaks and totals, unlocking any earned achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := svc.Progress(cmd.Context())
			if err := warnNotice(err); err != nil {
				return err
			}

			fmt.Printf("Journal streak:  %d day(s) (longest %d)\n", p.JournalStreak, p.LongestJournalStreak)
			fmt.Printf("Mood streak:     %d day(s)\n", p.MoodStreak)
			fmt.Printf("Journal entries: %d\n", p.JournalEntries)
			fmt.Printf("Mood check-ins:  %d\n", p.MoodEntries)
			fmt.Printf("Goals completed: %d\n", p.CompletedGoals)
			fmt.Printf("Gratitude items: %d\n", p.GratitudeItems)
			if p.LastMood != "" {
				fmt.Printf("Last mood:       %s %s\n", p.LastMood.Emoji(), p.LastMood)
			}
			printUnlocked(p.Unlocked)
			return nil
		},
	}
}

func achievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements, locked and unlocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := svc.Progress(cmd.Context())
			if err := warnNotice(err); err != nil {
				return err
			}

			unlocked := make(map[string]string, len(p.Achievements))
			for _, a := range p.Achievements {
				unlocked[a.ID] = a.UnlockedAt.In(svc.Location()).Format("2006-01-02")
			}

			for _, r := range achievement.Rules {
				if at, ok := unlocked[r.ID]; ok {
					fmt.Printf("%s  %-14s %s (unlocked %s)\n", r.Icon, r.Title, r.Description, at)
					continue
				}
				fmt.Printf("🔒  %-14s %s\n", r.Title, r.Description)
			}
			return nil
		},
	}
}

func analyticsCmd() *cobra.Command {
	var rangeFlag string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show mood trend, distribution and wellness score",
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := metrics.ParseWindow(rangeFlag)
			if err != nil {
				return err
			}

			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := svc.Analytics(cmd.Context(), window)
			if err := warnNotice(err); err != nil {
				return err
			}

			fmt.Printf("Last %s: %d mood entries, trend %s\n", report.Window, report.Entries, report.Trend)
			for _, share := range report.Distribution {
				bar := strings.Repeat("█", int(share.Percentage/5))
				fmt.Printf("  %s %-8s %3d  %5.1f%% %s\n", share.Mood.Emoji(), share.Mood, share.Count, share.Percentage, bar)
			}

			fmt.Printf("Wellness score: %d (%s)\n", report.CurrentScore, metrics.Tier(report.CurrentScore))
			if c := report.Current; c != nil {
				fmt.Printf("  mood %d (%s), sleep %d (%s), activity %d (%s), social %d (%s)\n",
					c.Factors.Mood, c.Provenance.Mood,
					c.Factors.Sleep, c.Provenance.Sleep,
					c.Factors.Activity, c.Provenance.Activity,
					c.Factors.Social, c.Provenance.Social)
			}
			if report.SleepQuality != metrics.QualityUnknown {
				fmt.Printf("Sleep quality: %s\n", report.SleepQuality)
			}
			if report.Placeholder {
				fmt.Println("(some values are placeholders, not measurements)")
			}

			fmt.Println()
			for _, insight := range report.Insights {
				fmt.Printf("• %s\n", insight)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rangeFlag, "range", "r", metrics.DefaultWindow.String(), "window: 7d, 30d or 90d")
	return cmd
}
