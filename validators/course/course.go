package courseValidator

import (
	"mime/multipart"
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseRequest is the parsed addcourse form. SectionTitles and
// SectionDescriptions stay nil when the client did not send them.
type CreateCourseRequest struct {
	Educator            string                  `json:"C_educator" validate:"required"`
	Title               string                  `json:"C_title" validate:"required"`
	Category            string                  `json:"C_categories" validate:"required"`
	Price               string                  `json:"C_price"`
	Description         string                  `json:"C_description" validate:"required"`
	SectionTitles       []string                `json:"S_title"`
	SectionDescriptions []string                `json:"S_description"`
	Files               []*multipart.FileHeader `json:"-"`
}

// jsonCourseRequest accepts C_price as a number or a string.
type jsonCourseRequest struct {
	Educator            string      `json:"C_educator"`
	Title               string      `json:"C_title"`
	Category            string      `json:"C_categories"`
	Price               interface{} `json:"C_price"`
	Description         string      `json:"C_description"`
	SectionTitles       []string    `json:"S_title"`
	SectionDescriptions []string    `json:"S_description"`
}

// CreateCourse parses a multipart (or JSON) course submission. Files arrive in
// the S_content field, one per section in order.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
			body := new(jsonCourseRequest)
			if err := c.BodyParser(body); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
			reqData.Educator = body.Educator
			reqData.Title = body.Title
			reqData.Category = body.Category
			reqData.Price = priceString(body.Price)
			reqData.Description = body.Description
			reqData.SectionTitles = body.SectionTitles
			reqData.SectionDescriptions = body.SectionDescriptions
		} else {
			form, err := c.MultipartForm()
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
			reqData.Educator = first(form.Value, "C_educator")
			reqData.Title = first(form.Value, "C_title")
			reqData.Category = first(form.Value, "C_categories")
			reqData.Price = first(form.Value, "C_price")
			reqData.Description = first(form.Value, "C_description")
			reqData.SectionTitles = list(form.Value, "S_title")
			reqData.SectionDescriptions = list(form.Value, "S_description")
			reqData.Files = form.File["S_content"]
		}

		reqData.Educator = strings.TrimSpace(reqData.Educator)
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Category = strings.TrimSpace(reqData.Category)
		reqData.Description = strings.TrimSpace(reqData.Description)

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = map[string]string{}
		}
		if reqData.SectionTitles == nil || reqData.SectionDescriptions == nil {
			errors["sections"] = "S_title and S_description must be arrays"
		} else if len(reqData.SectionTitles) != len(reqData.SectionDescriptions) {
			errors["sections"] = "S_title and S_description must have the same length"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		// one file per section; anything past the last section is never stored
		if len(reqData.Files) > len(reqData.SectionTitles) {
			reqData.Files = reqData.Files[:len(reqData.SectionTitles)]
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseID validates the :courseid route parameter.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID := strings.TrimSpace(c.Params("courseid"))
		if courseID == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}
		if err := validators.Var(courseID, "uuid"); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func first(values map[string][]string, key string) string {
	if v := list(values, key); len(v) > 0 {
		return v[0]
	}
	return ""
}

// list accepts both "key" and "key[]" spellings of a repeated form field.
func list(values map[string][]string, key string) []string {
	if v, ok := values[key]; ok {
		return v
	}
	if v, ok := values[key+"[]"]; ok {
		return v
	}
	return nil
}
