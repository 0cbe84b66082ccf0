package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MapControllers(app *fiber.App, baseURL string) {
	api := app.Group(baseURL)
	{
		testimonials := api.Group("/testimonials")
		{
			testimonials.Get("/changes", websocket.New(listenTestimonialChanges))
			testimonials.Get("/", listTestimonial)
			testimonials.Get("/:testimonialId", getTestimonial)
			testimonials.Post("/", createTestimonial)
		}
	}
}
