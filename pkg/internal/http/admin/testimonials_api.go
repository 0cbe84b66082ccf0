package admin

import (
	"github.com/adtechademy/wall/pkg/internal/http/exts"
	"github.com/adtechademy/wall/pkg/internal/http/sec"
	"github.com/adtechademy/wall/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func adminGetPendingCount(c *fiber.Ctx) error {
	if err := sec.EnsureModerator(c); err != nil {
		return err
	}

	count, err := services.CountPendingTestimonial()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

func adminSetTestimonialApproval(c *fiber.Ctx) error {
	if err := sec.EnsureModerator(c); err != nil {
		return err
	}
	id := c.Params("testimonialId")

	var data struct {
		Approved bool `json:"approved"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if ok, err := services.SetTestimonialApproval(id, data.Approved); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	} else if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no such testimonial")
	}

	return c.SendStatus(fiber.StatusOK)
}

func adminDeleteTestimonial(c *fiber.Ctx) error {
	if err := sec.EnsureModerator(c); err != nil {
		return err
	}
	id := c.Params("testimonialId")

	// Deleting something already gone is not an error, the 404 only tells
	// the caller no row was removed this time.
	if ok, err := services.DeleteTestimonial(id); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	} else if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no such testimonial")
	}

	return c.SendStatus(fiber.StatusOK)
}
