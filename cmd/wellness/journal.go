package main

import (
	"fmt"
	"time"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/wellness"
	"github.com/spf13/cobra"
)

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Write and read gratitude journal entries",
	}
	cmd.AddCommand(journalAddCmd(), journalListCmd())
	return cmd
}

func journalAddCmd() *cobra.Command {
	var (
		gratitude  []string
		goals      []string
		reflection string
		mood       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save today's journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			var draft wellness.JournalDraft
			for _, g := range gratitude {
				if err := draft.AddGratitude(g); err != nil {
					return err
				}
			}
			for _, g := range goals {
				if _, err := draft.AddGoal(g, time.Now()); err != nil {
					return err
				}
			}
			draft.Reflection = reflection
			draft.Mood = mood

			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			entry, unlocked, err := svc.SaveJournal(cmd.Context(), draft)
			if err := warnNotice(err); err != nil {
				return err
			}

			fmt.Printf("Saved journal entry %s for %s\n", shortID(entry.ID), entry.Date)
			printUnlocked(unlocked)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&gratitude, "gratitude", "g", nil, "something you are grateful for (up to 3)")
	cmd.Flags().StringArrayVar(&goals, "goal", nil, "a goal for today (repeatable)")
	cmd.Flags().StringVarP(&reflection, "reflection", "r", "", "free-form reflection")
	cmd.Flags().StringVar(&mood, "mood", "", "overall mood for the day")
	return cmd
}

func journalListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := svc.Journal(cmd.Context())
			if err := warnNotice(err); err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No journal entries yet. Use 'wellness journal add' to write one.")
				return nil
			}

			for i, e := range entries {
				if i >= limit {
					break
				}
				printJournalEntry(e)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries to show")
	return cmd
}

func printJournalEntry(e domain.JournalEntry) {
	fmt.Printf("%s  %s  %s %s\n", shortID(e.ID), e.Date, domain.Mood(e.Mood).Emoji(), e.Mood)
	for _, g := range e.Gratitude {
		fmt.Printf("  🙏 %s\n", g)
	}
	for _, g := range e.Goals {
		mark := "[ ]"
		if g.Completed {
			mark = "[x]"
		}
		fmt.Printf("  %s %s  (%s)\n", mark, g.Text, shortID(g.ID))
	}
	if e.Reflection != "" {
		fmt.Printf("  %s\n", truncate(e.Reflection, 70))
	}
}

func goalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goal [entry-id] [goal-id]",
		Short: "Toggle a goal on a journal entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, svc, err := openService()
			if err != nil {
				return err
			}
			defer s.Close()

			entry, unlocked, err := svc.ToggleGoal(cmd.Context(), args[0], args[1])
			if err := warnNotice(err); err != nil {
				return err
			}

			printJournalEntry(entry)
			printUnlocked(unlocked)
			return nil
		},
	}
}

func printUnlocked(unlocked []domain.Achievement) {
	for _, a := range unlocked {
		fmt.Printf("%s Achievement unlocked: %s - %s\n", a.Icon, a.Title, a.Description)
	}
}
