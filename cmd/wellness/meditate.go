package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pbaille/wellness/internal/meditation"
	"github.com/spf13/cobra"
)

func meditateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meditate [session]",
		Short: "List sessions or run one by id or title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, s := range meditation.Sessions {
					fmt.Printf("%s  %-22s %2dm  %-10s %s\n", s.ID, s.Title, s.Minutes, s.Category, s.Description)
				}
				return nil
			}

			session, err := meditation.Find(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("%s (%dm). Enter p to pause or resume, s to skip 30s, b to go back 30s. Ctrl+C stops.\n", session.Title, session.Minutes)
			st, err := meditation.Run(ctx, session, time.Second, time.Now, readControls(cmd.InOrStdin()), printMeditationTick)
			fmt.Println()
			if errors.Is(err, context.Canceled) {
				fmt.Printf("Stopped at %s.\n", meditation.FormatClock(st.Elapsed))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(meditation.CompletionMessage)
			return nil
		},
	}
	return cmd
}

// readControls turns input lines into timer controls until r is exhausted
func readControls(r io.Reader) <-chan meditation.Control {
	ch := make(chan meditation.Control)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
			case "p", "pause", "resume":
				ch <- meditation.TogglePause
			case "s", "skip":
				ch <- meditation.SkipForward
			case "b", "back":
				ch <- meditation.SkipBack
			}
		}
	}()
	return ch
}

func printMeditationTick(st meditation.State) {
	line := fmt.Sprintf("\r%s / %s", meditation.FormatClock(st.Elapsed), meditation.FormatClock(st.Session.Duration()))
	if b := st.Breath; b != nil {
		line += fmt.Sprintf("  %-12s %ds  cycles %d", b.Phase.Instruction(), int(b.Remaining.Seconds()+0.5), b.Cycles)
	}
	if !st.Running && !st.Done {
		line += "  paused"
	}
	fmt.Printf("%-70s", line)
}
