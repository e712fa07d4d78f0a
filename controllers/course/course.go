package controllers

import (
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/services"
	"learnhub/storage"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CourseController serves course authoring, enrollment and learning routes.
type CourseController struct {
	courses     *services.CourseService
	enrollments *services.EnrollmentService
	uploads     storage.Uploader
	log         *logger.Logger
}

func New(courses *services.CourseService, enrollments *services.EnrollmentService, uploads storage.Uploader, log *logger.Logger) *CourseController {
	return &CourseController{courses: courses, enrollments: enrollments, uploads: uploads, log: log}
}

func (h *CourseController) GetAllCourses(c *fiber.Ctx) error {
	courses, err := h.courses.ListAll(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{"data": courses})
}

// AddCourse stores the uploaded files first and removes them again if the course cannot be saved.
func (h *CourseController) AddCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	ctx := c.UserContext()

	contents, err := storage.SaveAll(ctx, h.uploads, reqData.Files)
	if err != nil {
		h.log.Error("failed to store course files", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course", nil)
	}

	_, err = h.courses.Create(ctx, services.CreateCourseInput{
		OwnerID:             middleware.UserID(c),
		Educator:            reqData.Educator,
		Title:               reqData.Title,
		Category:            reqData.Category,
		Price:               reqData.Price,
		Description:         reqData.Description,
		SectionTitles:       reqData.SectionTitles,
		SectionDescriptions: reqData.SectionDescriptions,
		Contents:            contents,
	})
	if err != nil {
		storage.RemoveAll(ctx, h.uploads, contents)
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully", nil)
}

func (h *CourseController) GetUserCourses(c *fiber.Ctx) error {
	courses, err := h.courses.ListByOwner(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{"data": courses})
}

func (h *CourseController) DeleteCourse(c *fiber.Ctx) error {
	if err := h.courses.Delete(c.UserContext(), c.Locals("courseID").(string)); err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully", nil)
}
