// Package client keeps a local testimonial list consistent with the wall
// service: it wraps the HTTP API, subscribes to the change feed, and owns
// the optimistic state the moderation surfaces work against.
package client

import "time"

const (
	TypeWritten  = "written"
	TypeLinkedin = "linkedin"
)

// WrittenContent is the payload of a free-text testimonial.
type WrittenContent struct {
	Text      string  `json:"text"`
	Company   *string `json:"company"`
	Role      *string `json:"role"`
	AvatarURL *string `json:"avatar_url"`
}

// LinkedinContent is the payload of an imported LinkedIn recommendation.
type LinkedinContent struct {
	Headline  *string `json:"headline"`
	ImageURL  *string `json:"image_url"`
	SourceURL *string `json:"source_url"`
}

// Testimonial is the in-memory entity. Exactly one of Written and Linkedin
// is populated, matching Type; Type never changes after creation.
type Testimonial struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Written   *WrittenContent  `json:"written,omitempty"`
	Linkedin  *LinkedinContent `json:"linkedin,omitempty"`
	Tags      []string         `json:"tags,omitempty"`
	Rating    *int             `json:"rating,omitempty"`
	Date      *string          `json:"date,omitempty"`
	Source    *string          `json:"source,omitempty"`
	Language  *string          `json:"language,omitempty"`
	Verified  bool             `json:"verified"`
	Approved  bool             `json:"approved"`
	CreatedAt time.Time        `json:"created_at"`
}

// Record mirrors one row of the remote schema. Nullable columns stay
// pointers so "not provided" never collapses into an empty string.
type Record struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Text        *string   `json:"text"`
	Company     *string   `json:"company"`
	Role        *string   `json:"role"`
	Headline    *string   `json:"headline"`
	AvatarURL   *string   `json:"avatar_url"`
	ImageURL    *string   `json:"image_url"`
	LinkedinURL *string   `json:"linkedin_url"`
	Rating      *int      `json:"rating"`
	Date        *string   `json:"date"`
	Source      *string   `json:"source"`
	Tags        []string  `json:"tags"`
	Language    *string   `json:"language"`
	Verified    bool      `json:"verified"`
	Approved    bool      `json:"approved"`
}

// FromRecord maps a remote row onto the entity. Only the columns belonging
// to the row's type end up in the payload; everything else is dropped.
func FromRecord(rec Record) Testimonial {
	item := Testimonial{
		ID:        rec.ID,
		Name:      rec.Name,
		Type:      rec.Type,
		Tags:      rec.Tags,
		Rating:    rec.Rating,
		Date:      rec.Date,
		Source:    rec.Source,
		Language:  rec.Language,
		Verified:  rec.Verified,
		Approved:  rec.Approved,
		CreatedAt: rec.CreatedAt,
	}

	switch rec.Type {
	case TypeLinkedin:
		item.Linkedin = &LinkedinContent{
			Headline:  rec.Headline,
			ImageURL:  rec.ImageURL,
			SourceURL: rec.LinkedinURL,
		}
	default:
		var text string
		if rec.Text != nil {
			text = *rec.Text
		}
		item.Written = &WrittenContent{
			Text:      text,
			Company:   rec.Company,
			Role:      rec.Role,
			AvatarURL: rec.AvatarURL,
		}
	}

	return item
}

// ToRecord maps the entity back into row form. Columns of the absent
// variant stay nil so a write never clobbers unrelated columns.
func ToRecord(item Testimonial) Record {
	rec := Record{
		ID:        item.ID,
		Name:      item.Name,
		Type:      item.Type,
		Tags:      item.Tags,
		Rating:    item.Rating,
		Date:      item.Date,
		Source:    item.Source,
		Language:  item.Language,
		Verified:  item.Verified,
		Approved:  item.Approved,
		CreatedAt: item.CreatedAt,
	}

	if item.Written != nil {
		text := item.Written.Text
		rec.Text = &text
		rec.Company = item.Written.Company
		rec.Role = item.Written.Role
		rec.AvatarURL = item.Written.AvatarURL
	}
	if item.Linkedin != nil {
		rec.Headline = item.Linkedin.Headline
		rec.ImageURL = item.Linkedin.ImageURL
		rec.LinkedinURL = item.Linkedin.SourceURL
	}

	return rec
}
