package main

import (
	"fmt"
	"os"

	"github.com/adtechademy/wall/pkg/client"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var (
		kind        string
		name        string
		text        string
		company     string
		role        string
		headline    string
		linkedinURL string
		imagePath   string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new testimonial",
		Long:  "Submits a testimonial through the public path. New entries always start unapproved and appear on the wall after moderation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := client.Draft{
				Name: name,
				Type: kind,
				Tags: tags,
			}

			switch kind {
			case client.TypeWritten:
				draft.Written = &client.WrittenContent{
					Text:    text,
					Company: emptyAsNil(company),
					Role:    emptyAsNil(role),
				}
			case client.TypeLinkedin:
				draft.Linkedin = &client.LinkedinContent{
					Headline:  emptyAsNil(headline),
					SourceURL: emptyAsNil(linkedinURL),
				}
			default:
				return fmt.Errorf("unknown testimonial type %q, expected written or linkedin", kind)
			}

			if len(imagePath) > 0 {
				file, err := os.Open(imagePath)
				if err != nil {
					return fmt.Errorf("unable to open image attachment: %v", err)
				}
				defer file.Close()
				draft.Image = file
			}

			item, err := newStore().Create(cmd.Context(), draft)
			if err != nil {
				return err
			}

			fmt.Printf("Submitted testimonial %s, awaiting moderation.\n", item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", client.TypeWritten, "Testimonial type (written or linkedin)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (required)")
	cmd.Flags().StringVar(&text, "text", "", "Testimonial body (written type)")
	cmd.Flags().StringVar(&company, "company", "", "Company (written type)")
	cmd.Flags().StringVar(&role, "role", "", "Role (written type)")
	cmd.Flags().StringVar(&headline, "headline", "", "Headline (linkedin type)")
	cmd.Flags().StringVar(&linkedinURL, "url", "", "Source URL (linkedin type)")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to an image attachment")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tags (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func emptyAsNil(val string) *string {
	return lo.Ternary(len(val) > 0, &val, nil)
}
