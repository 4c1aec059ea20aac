package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbaille/wellness/internal/config"
	"github.com/pbaille/wellness/internal/store"
	"github.com/pbaille/wellness/internal/wellness"
	"github.com/spf13/cobra"
)

var (
	dbPath string
	cfg    *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "wellness",
		Short:        "Local mood tracker, gratitude journal and wellness companion",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			if !cmd.Flags().Changed("db") {
				dbPath = cfg.Storage.Path
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.Default().Storage.Path, "database path")

	rootCmd.AddCommand(moodCmd())
	rootCmd.AddCommand(journalCmd())
	rootCmd.AddCommand(goalCmd())
	rootCmd.AddCommand(progressCmd())
	rootCmd.AddCommand(achievementsCmd())
	rootCmd.AddCommand(analyticsCmd())
	rootCmd.AddCommand(meditateCmd())
	rootCmd.AddCommand(crisisCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(dbPath)
}

func newService(s *store.Store) (*wellness.Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return wellness.New(s,
		wellness.WithLocation(loc),
		wellness.WithPlaceholderFactors(cfg.Analytics.PlaceholderFactors, cfg.Analytics.Seed),
	), nil
}

// openService opens the store and builds the service on top of it
func openService() (*store.Store, *wellness.Service, error) {
	s, err := getStore()
	if err != nil {
		return nil, nil, err
	}
	svc, err := newService(s)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, svc, nil
}

// warnNotice prints storage notices and returns any other error
func warnNotice(err error) error {
	if err == nil {
		return nil
	}
	if wellness.IsNotice(err) {
		fmt.Printf("note: %v (kept for this session only)\n", err)
		return nil
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
