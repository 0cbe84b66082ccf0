package main

import (
	"fmt"

	"github.com/adtechademy/wall/pkg/client"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List testimonials, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := newStore().List(cmd.Context(), all)
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Println("No testimonials.")
				return nil
			}

			for _, item := range items {
				printTestimonial(item)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include unapproved entries (requires moderator token)")

	return cmd
}

func printTestimonial(item client.Testimonial) {
	status := color.YellowString("pending")
	if item.Approved {
		status = color.GreenString("approved")
	}

	fmt.Printf("%s  %s  %s  [%s]\n", color.HiBlackString(item.ID), item.Name, item.CreatedAt.Format("2006-01-02"), status)
	switch {
	case item.Written != nil:
		fmt.Printf("    %s\n", item.Written.Text)
		if item.Written.Company != nil {
			fmt.Printf("    %s", *item.Written.Company)
			if item.Written.Role != nil {
				fmt.Printf(", %s", *item.Written.Role)
			}
			fmt.Println()
		}
	case item.Linkedin != nil:
		if item.Linkedin.Headline != nil {
			fmt.Printf("    %s\n", *item.Linkedin.Headline)
		}
		if item.Linkedin.SourceURL != nil {
			fmt.Printf("    %s\n", *item.Linkedin.SourceURL)
		}
	}
}
