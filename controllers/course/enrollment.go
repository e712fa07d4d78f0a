package controllers

import (
	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse answers 200 both for a new enrollment and for a repeat; success tells them apart.
func (h *CourseController) EnrollInCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(string)
	fields, _ := c.Locals("paymentFields").(map[string]interface{})

	res, err := h.enrollments.Enroll(c.UserContext(), middleware.UserID(c), courseID, fields)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, res.Created, res.Message, fiber.Map{
		"course": res.Course,
	})
}

func (h *CourseController) GetEnrolledCourses(c *fiber.Ctx) error {
	courses, err := h.enrollments.ListEnrolledCourses(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", fiber.Map{"data": courses})
}

func (h *CourseController) GetPayments(c *fiber.Ctx) error {
	payments, err := h.enrollments.ListPayments(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{"data": payments})
}
