package api

import (
	"github.com/adtechademy/wall/pkg/internal/database"
	"github.com/adtechademy/wall/pkg/internal/http/exts"
	"github.com/adtechademy/wall/pkg/internal/http/sec"
	"github.com/adtechademy/wall/pkg/internal/models"
	"github.com/adtechademy/wall/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listTestimonial(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	// The moderation panel asks for everything, the public wall only ever
	// sees approved entries.
	if c.QueryBool("all", false) {
		if err := sec.EnsureModerator(c); err != nil {
			return err
		}

		tx := database.C
		if t := c.Query("type"); len(t) > 0 {
			tx = services.FilterTestimonialWithType(tx, t)
		}

		count, err := services.CountTestimonial(tx)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		items, err := services.ListTestimonial(tx, take, offset)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(fiber.Map{
			"count": count,
			"data":  items,
		})
	}

	count, err := services.CountTestimonial(services.FilterTestimonialApproved(database.C))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPublicTestimonial()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func getTestimonial(c *fiber.Ctx) error {
	id := c.Params("testimonialId")

	tx := database.C
	if !sec.IsModerator(c) {
		tx = services.FilterTestimonialApproved(tx)
	}

	item, err := services.GetTestimonial(tx, id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(item)
}

func createTestimonial(c *fiber.Ctx) error {
	var data struct {
		Name        string   `json:"name" validate:"required,max=256"`
		Type        string   `json:"type" validate:"required,oneof=written linkedin"`
		Text        *string  `json:"text"`
		Company     *string  `json:"company"`
		Role        *string  `json:"role"`
		Headline    *string  `json:"headline"`
		AvatarURL   *string  `json:"avatar_url"`
		ImageURL    *string  `json:"image_url"`
		LinkedinURL *string  `json:"linkedin_url" validate:"omitempty,url"`
		Rating      *int     `json:"rating" validate:"omitempty,min=1,max=5"`
		Date        *string  `json:"date"`
		Source      *string  `json:"source"`
		Tags        []string `json:"tags"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewTestimonial(models.Testimonial{
		Name:        data.Name,
		Type:        data.Type,
		Text:        data.Text,
		Company:     data.Company,
		Role:        data.Role,
		Headline:    data.Headline,
		AvatarURL:   data.AvatarURL,
		ImageURL:    data.ImageURL,
		LinkedinURL: data.LinkedinURL,
		Rating:      data.Rating,
		Date:        data.Date,
		Source:      data.Source,
		Tags:        data.Tags,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}
