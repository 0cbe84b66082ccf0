package admin

import "github.com/gofiber/fiber/v2"

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL)
	{
		admin.Get("/testimonials/pending-count", adminGetPendingCount)
		admin.Put("/testimonials/:testimonialId/approval", adminSetTestimonialApproval)
		admin.Delete("/testimonials/:testimonialId", adminDeleteTestimonial)
	}
}
