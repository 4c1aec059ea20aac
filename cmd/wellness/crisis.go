package main

import (
	"fmt"
	"strings"

	"github.com/pbaille/wellness/internal/crisis"
	"github.com/pbaille/wellness/internal/domain"
	"github.com/spf13/cobra"
)

func crisisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crisis",
		Short: "Show crisis hotlines, your contacts and safety plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			support := crisis.New(s)
			contacts, err := support.Contacts(cmd.Context())
			if err != nil {
				return err
			}
			plan, err := support.Plan(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println("If you are in immediate danger, call your local emergency number.")
			fmt.Println()
			fmt.Println("Contacts:")
			for _, c := range contacts {
				primary := ""
				if c.IsPrimary {
					primary = " *"
				}
				fmt.Printf("  %-38s %-22s %s%s  (%s)\n", c.Name, c.Phone, c.Relationship, primary, shortID(c.ID))
			}
			fmt.Println()
			fmt.Println("Safety plan:")
			for _, item := range plan {
				fmt.Printf("  [%s] %s: %s  (%s)\n", item.Category, item.Title, truncate(item.Description, 60), shortID(item.ID))
			}
			return nil
		},
	}

	cmd.AddCommand(contactAddCmd(), contactRemoveCmd(), planAddCmd(), planRemoveCmd())
	return cmd
}

func contactAddCmd() *cobra.Command {
	var relationship string

	cmd := &cobra.Command{
		Use:   "add-contact [name] [phone]",
		Short: "Add a personal emergency contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			c, err := crisis.New(s).AddContact(cmd.Context(), crisis.ContactInput{
				Name:         args[0],
				Phone:        args[1],
				Relationship: relationship,
			})
			if err := warnNotice(err); err != nil {
				return err
			}
			fmt.Printf("Added contact %s (%s)\n", c.Name, shortID(c.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&relationship, "relationship", "", "how you know them")
	return cmd
}

func contactRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-contact [id]",
		Short: "Remove a personal emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			support := crisis.New(s)
			contacts, err := support.Contacts(cmd.Context())
			if err != nil {
				return err
			}
			id := resolveID(args[0], len(contacts), func(i int) string { return contacts[i].ID })
			if err := warnNotice(support.RemoveContact(cmd.Context(), id)); err != nil {
				return err
			}
			fmt.Println("Contact removed.")
			return nil
		},
	}
}

func planAddCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add-plan [title] [description]",
		Short: "Add a step to your safety plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			item, err := crisis.New(s).AddPlanItem(cmd.Context(), crisis.PlanInput{
				Title:       args[0],
				Description: args[1],
				Category:    domain.PlanCategory(category),
			})
			if err := warnNotice(err); err != nil {
				return err
			}
			fmt.Printf("Added plan step %s (%s)\n", item.Title, shortID(item.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(domain.PlanCopingStrategies),
		"warning-signs, coping-strategies, distractions, support-people or professional-help")
	return cmd
}

func planRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-plan [id]",
		Short: "Remove a step from your safety plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			support := crisis.New(s)
			plan, err := support.Plan(cmd.Context())
			if err != nil {
				return err
			}
			id := resolveID(args[0], len(plan), func(i int) string { return plan[i].ID })
			if err := warnNotice(support.RemovePlanItem(cmd.Context(), id)); err != nil {
				return err
			}
			fmt.Println("Plan step removed.")
			return nil
		},
	}
}

// resolveID expands a short id prefix to the full id of the first match
func resolveID(prefix string, n int, id func(int) string) string {
	for i := 0; i < n; i++ {
		if strings.HasPrefix(id(i), prefix) {
			return id(i)
		}
	}
	return prefix
}
