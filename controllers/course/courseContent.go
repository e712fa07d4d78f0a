package controllers

import (
	"errors"
	"mime"
	"path/filepath"

	"learnhub/middleware"
	"learnhub/storage"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (h *CourseController) GetCourseContent(c *fiber.Ctx) error {
	content, err := h.enrollments.GetCourseContent(c.UserContext(), middleware.UserID(c), c.Locals("courseID").(string))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"courseContent":   content.Sections,
		"progress":        content.Progress,
		"certificateData": content.Certificate,
	})
}

func (h *CourseController) CompleteModule(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCompletion").(*courseValidator.CompleteModuleRequest)

	err := h.enrollments.CompleteSection(c.UserContext(), middleware.UserID(c), reqData.CourseID, reqData.SectionID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section completed successfully", nil)
}

// ServeUpload streams a stored section file from the upload backend.
func (h *CourseController) ServeUpload(c *fiber.Ctx) error {
	name := c.Params("filename")
	rc, err := h.uploads.Open(c.UserContext(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidFilename) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found", nil)
		}
		return middleware.ErrorResponse(c, h.log, err)
	}

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	}
	// fasthttp closes rc once the body is written
	return c.SendStream(rc)
}
