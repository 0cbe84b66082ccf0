package main

import (
	"fmt"

	"github.com/adtechademy/wall/pkg/client"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the wall and reprint it on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ctrl := client.NewController(newStore(), all)
			defer ctrl.Close()

			ctrl.OnChange(func(items []client.Testimonial) {
				color.HiBlack("---- %d testimonial(s) ----", len(items))
				for _, item := range items {
					printTestimonial(item)
				}
			})

			if err := ctrl.Open(ctx); err != nil {
				return fmt.Errorf("initial load failed: %v", err)
			}

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include unapproved entries (requires moderator token)")

	return cmd
}
