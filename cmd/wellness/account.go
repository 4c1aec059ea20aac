package main

import (
	"fmt"

	"github.com/pbaille/wellness/internal/session"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in on this machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sc, err := session.Login(cmd.Context(), s, args[0], name)
			if err != nil {
				return err
			}
			fmt.Printf("Welcome, %s!\n", sc.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := session.Logout(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
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

			fmt.Printf("Database:     %s\n", dbPath)
			fmt.Printf("Server addr:  %s\n", cfg.Server.Addr)
			fmt.Printf("Timezone:     %s\n", valueOr(cfg.Calendar.Timezone, "local"))
			fmt.Printf("Placeholders: %t\n", cfg.Analytics.PlaceholderFactors)
			fmt.Printf("Check every:  %s\n", cfg.Scheduler.CheckInterval)
			fmt.Printf("Signed in:    %t %s\n", sc.Authenticated, sc.Email)
			fmt.Printf("AI provider:  %s (key set: %t)\n", sc.Provider, sc.HasAPIKey())
			return nil
		},
	}

	cmd.AddCommand(configAICmd())
	return cmd
}

func configAICmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "ai [api-key]",
		Short: "Store the chat companion provider and API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := session.Configure(cmd.Context(), s, provider, args[0]); err != nil {
				return err
			}
			fmt.Printf("Companion set to %s.\n", provider)
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", session.ProviderOpenAI, "openai or grok")
	return cmd
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
