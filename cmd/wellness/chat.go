package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pbaille/wellness/internal/companion"
	"github.com/pbaille/wellness/internal/session"
	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk with Mindful Buddy; without a message, start a conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := session.Load(cmd.Context(), s)
			if err != nil {
				return err
			}
			if !sc.HasAPIKey() && cfg.Companion.APIKey != "" {
				sc.APIKey = cfg.Companion.APIKey
				if cfg.Companion.Provider != "" {
					sc.Provider = cfg.Companion.Provider
				}
			}
			client := companion.New(sc)

			if len(args) > 0 {
				reply, err := client.Send(cmd.Context(), nil, strings.Join(args, " "))
				if err != nil {
					fmt.Println(companion.FriendlyMessage(err, client.Provider()))
					return nil
				}
				fmt.Println(reply)
				return nil
			}

			fmt.Println(companion.Greeting)
			fmt.Println("(empty line or Ctrl+D to leave)")

			history := []companion.Message{{Role: companion.RoleAssistant, Content: companion.Greeting}}
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					break
				}

				reply, err := client.Send(cmd.Context(), history, text)
				if err != nil {
					fmt.Println(companion.FriendlyMessage(err, client.Provider()))
					continue
				}
				fmt.Println(reply)
				history = append(history,
					companion.Message{Role: companion.RoleUser, Content: text},
					companion.Message{Role: companion.RoleAssistant, Content: reply},
				)
			}
			return scanner.Err()
		},
	}
}
