package models

import (
	"gorm.io/datatypes"
)

const (
	TestimonialTypeWritten  = "written"
	TestimonialTypeLinkedin = "linkedin"
)

// Testimonial is stored flat; which optional columns are meaningful is
// decided by Type. Written entries use Text, Company, Role and AvatarURL,
// LinkedIn entries use Headline, ImageURL and LinkedinURL.
type Testimonial struct {
	BaseModel

	Name     string  `json:"name" gorm:"not null"`
	Type     string  `json:"type" gorm:"not null;index"`
	Text     *string `json:"text"`
	Company  *string `json:"company"`
	Role     *string `json:"role"`
	Headline *string `json:"headline"`

	// Images are embedded as data URIs, there is no object storage.
	AvatarURL *string `json:"avatar_url"`
	ImageURL  *string `json:"image_url"`

	LinkedinURL *string `json:"linkedin_url"`

	Rating   *int                        `json:"rating"`
	Date     *string                     `json:"date"`
	Source   *string                     `json:"source"`
	Tags     datatypes.JSONSlice[string] `json:"tags"`
	Language *string                     `json:"language"`

	Verified bool `json:"verified"`
	Approved bool `json:"approved" gorm:"index"`
}
