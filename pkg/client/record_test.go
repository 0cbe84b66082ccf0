package client

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTripWritten(t *testing.T) {
	item := Testimonial{
		ID:   "f6f9f1f0-7a9f-4a39-9666-bd7c25de1afc",
		Name: "Jane Doe",
		Type: TypeWritten,
		Written: &WrittenContent{
			Text:    "Great program",
			Company: lo.ToPtr("Acme Media"),
			Role:    lo.ToPtr("Ad Ops Manager"),
		},
		Tags:      []string{"career", "programmatic"},
		Rating:    lo.ToPtr(5),
		Approved:  true,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	got := FromRecord(ToRecord(item))
	assert.Equal(t, item, got)
}

func TestRecordRoundTripLinkedin(t *testing.T) {
	item := Testimonial{
		ID:   "8e7345c7-f9a1-44d5-a153-8a2a8de2e0a7",
		Name: "Miguel Rodriguez",
		Type: TypeLinkedin,
		Linkedin: &LinkedinContent{
			Headline:  lo.ToPtr("Technical Product Manager"),
			ImageURL:  lo.ToPtr("data:image/png;base64,aGVsbG8="),
			SourceURL: lo.ToPtr("https://www.linkedin.com/in/example"),
		},
		Source:    lo.ToPtr("linkedin"),
		CreatedAt: time.Date(2024, 5, 20, 8, 30, 0, 0, time.UTC),
	}

	got := FromRecord(ToRecord(item))
	assert.Equal(t, item, got)
}

func TestToRecordOmitsOtherVariantColumns(t *testing.T) {
	rec := ToRecord(Testimonial{
		Name: "Jane Doe",
		Type: TypeWritten,
		Written: &WrittenContent{
			Text: "Great program",
		},
	})

	require.NotNil(t, rec.Text)
	assert.Equal(t, "Great program", *rec.Text)

	// LinkedIn columns stay nil so a write cannot clobber them.
	assert.Nil(t, rec.Headline)
	assert.Nil(t, rec.ImageURL)
	assert.Nil(t, rec.LinkedinURL)

	// Absent optional fields stay absent, not empty strings.
	assert.Nil(t, rec.Company)
	assert.Nil(t, rec.Role)
	assert.Nil(t, rec.AvatarURL)
}

func TestFromRecordSplitsByType(t *testing.T) {
	rec := Record{
		ID:          "abc123",
		Name:        "Sarah Johnson",
		Type:        TypeLinkedin,
		Headline:    lo.ToPtr("Ad Tech Specialist"),
		LinkedinURL: lo.ToPtr("https://www.linkedin.com/in/sarah"),
		// Written columns present in the row must not leak into the entity.
		Text:    lo.ToPtr("stale column"),
		Company: lo.ToPtr("stale column"),
	}

	item := FromRecord(rec)
	require.NotNil(t, item.Linkedin)
	assert.Nil(t, item.Written)
	assert.Equal(t, "Ad Tech Specialist", *item.Linkedin.Headline)
	assert.Equal(t, "https://www.linkedin.com/in/sarah", *item.Linkedin.SourceURL)
}
