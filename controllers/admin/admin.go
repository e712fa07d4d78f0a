package adminController

import (
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/services"

	"github.com/gofiber/fiber/v2"
)

type AdminController struct {
	admin *services.AdminService
	log   *logger.Logger
}

func New(admin *services.AdminService, log *logger.Logger) *AdminController {
	return &AdminController{admin: admin, log: log}
}

func (h *AdminController) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{"data": users})
}

func (h *AdminController) GetAllCourses(c *fiber.Ctx) error {
	courses, err := h.admin.ListCourses(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{"data": courses})
}

func (h *AdminController) DeleteUser(c *fiber.Ctx) error {
	if err := h.admin.DeleteUser(c.UserContext(), c.Locals("userID").(string)); err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully", nil)
}

func (h *AdminController) DeleteCourse(c *fiber.Ctx) error {
	if err := h.admin.DeleteCourse(c.UserContext(), c.Locals("courseID").(string)); err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully", nil)
}

func (h *AdminController) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.admin.DashboardStats(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}
