package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/spf13/cobra"
)

// exportable lists the keys written by export; credentials stay local
var exportable = []string{
	domain.KeyMoodEntries,
	domain.KeyJournal,
	domain.KeyAchievements,
	domain.KeyCrisisContact,
	domain.KeySafetyPlan,
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all records to a JSON file (stdout when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			snapshot, err := s.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			out := make(map[string]json.RawMessage, len(exportable))
			for _, key := range exportable {
				if v, ok := snapshot[key]; ok && json.Valid([]byte(v)) {
					out[key] = json.RawMessage(v)
				}
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal export: %w", err)
			}

			if len(args) == 0 {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(args[0], data, 0600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported %d collection(s) to %s\n", len(out), args[0])
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace records with the collections in a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			var in map[string]json.RawMessage
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parse import: %w", err)
			}

			values := make(map[string]string, len(in))
			for _, key := range exportable {
				if raw, ok := in[key]; ok {
					values[key] = string(raw)
				}
			}
			if len(values) == 0 {
				return fmt.Errorf("no known collections in %s", args[0])
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Restore(cmd.Context(), values); err != nil {
				return err
			}
			fmt.Printf("Imported %d collection(s)\n", len(values))
			return nil
		},
	}
}
