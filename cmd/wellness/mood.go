package main

import (
	"fmt"
	"strings"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/wellness"
	"github.com/spf13/cobra"
)

func moodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Log and review mood check-ins",
	}
	cmd.AddCommand(moodAddCmd(), moodListCmd(), moodClearCmd())
	return cmd
}

func moodAddCmd() *cobra.Command {
	var intensity int
	var note string

	cmd := &cobra.Command{
		Use:   "add [mood]",
		Short: "Log how you feel (" + moodNames() + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			entry, err := svc.LogMood(cmd.Context(), wellness.MoodInput{
				Mood:      args[0],
				Intensity: intensity,
				Note:      note,
			})
			if err := warnNotice(err); err != nil {
				return err
			}

			fmt.Printf("Logged %s %s (%d/10)\n", entry.Mood.Emoji(), entry.Mood, entry.Intensity)
			return nil
		},
	}

	cmd.Flags().IntVarP(&intensity, "intensity", "i", wellness.DefaultIntensity, "intensity from 1 to 10")
	cmd.Flags().StringVarP(&note, "note", "m", "", "optional note")
	return cmd
}

func moodListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent mood entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			moods, err := svc.Moods(cmd.Context())
			if err := warnNotice(err); err != nil {
				return err
			}

			if len(moods) == 0 {
				fmt.Println("No mood entries yet. Use 'wellness mood add' to log one.")
				return nil
			}

			for i, m := range moods {
				if i >= limit {
					break
				}
				line := fmt.Sprintf("%s  %s %-8s %2d/10", m.Date.In(svc.Location()).Format("2006-01-02 15:04"), m.Mood.Emoji(), m.Mood, m.Intensity)
				if m.Note != "" {
					line += "  " + truncate(m.Note, 50)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func moodClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all mood entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := warnNotice(svc.ClearMoods(cmd.Context())); err != nil {
				return err
			}
			fmt.Println("Mood history cleared.")
			return nil
		},
	}
}

func moodNames() string {
	names := make([]string, len(domain.Moods))
	for i, m := range domain.Moods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
