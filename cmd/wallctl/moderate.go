package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/adtechademy/wall/pkg/client"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type printNotifier struct{}

func (printNotifier) Success(message string) { color.Green(message) }
func (printNotifier) Failure(message string) { color.Red(message) }

func newApproveCmd() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve (or unapprove) a testimonial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := client.NewController(newStore(), true)
			defer ctrl.Close()

			workflow := client.NewWorkflow(ctrl, printNotifier{})
			workflow.ToggleApproval(cmd.Context(), args[0], !revoke)
			return nil
		},
	}

	cmd.Flags().BoolVar(&revoke, "revoke", false, "Unapprove instead of approve")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a testimonial (asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := client.NewController(newStore(), true)
			defer ctrl.Close()

			workflow := client.NewWorkflow(ctrl, printNotifier{})
			id := args[0]

			// First trigger arms, second trigger inside the window commits.
			if !force {
				workflow.RequestDelete(cmd.Context(), id)
				fmt.Printf("About to delete %s, press enter within %s to confirm: ", id, client.DefaultConfirmWindow)
				if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err != nil {
					return err
				}
				if workflow.Armed() != id {
					fmt.Println("Confirmation window elapsed, nothing deleted.")
					return nil
				}
			} else {
				workflow.RequestDelete(cmd.Context(), id)
			}

			workflow.RequestDelete(cmd.Context(), id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}
