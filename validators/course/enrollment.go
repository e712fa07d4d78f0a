package courseValidator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// EnrollCourse validates :courseid and collects the payment fields from a
// JSON or form body. An empty body yields an empty map.
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID := strings.TrimSpace(c.Params("courseid"))
		if err := validators.Var(courseID, "required,uuid"); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		fields := map[string]interface{}{}
		switch {
		case len(c.Body()) == 0:
		case strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON):
			if err := json.Unmarshal(c.Body(), &fields); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		case strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm):
			form, err := c.MultipartForm()
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
			for k, v := range form.Value {
				if len(v) > 0 {
					fields[k] = v[0]
				}
			}
		default:
			c.Request().PostArgs().VisitAll(func(k, v []byte) {
				fields[string(k)] = string(v)
			})
		}

		c.Locals("courseID", courseID)
		c.Locals("paymentFields", fields)
		return c.Next()
	}
}

type CompleteModuleRequest struct {
	CourseID  string `json:"courseId" validate:"required,uuid"`
	SectionID int    `json:"sectionId"`
}

// CompleteModule accepts sectionId as a JSON number or a numeric string.
func CompleteModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(struct {
			CourseID  string          `json:"courseId" form:"courseId"`
			SectionID json.RawMessage `json:"sectionId" form:"-"`
			FormID    string          `json:"-" form:"sectionId"`
		})
		if err := c.BodyParser(raw); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData := &CompleteModuleRequest{CourseID: strings.TrimSpace(raw.CourseID)}
		errors := validators.Struct(reqData)
		if errors == nil {
			errors = map[string]string{}
		}

		idText := raw.FormID
		if len(raw.SectionID) > 0 {
			idText = string(raw.SectionID)
		}
		sectionID, err := parseSectionID(idText)
		if err != nil {
			errors["sectionId"] = err.Error()
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		reqData.SectionID = sectionID

		c.Locals("validatedCompletion", reqData)
		return c.Next()
	}
}

func parseSectionID(s string) (int, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" || s == "null" {
		return 0, errors.New("sectionId is required!")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("sectionId must be an integer!")
	}
	return id, nil
}

// priceString renders a JSON price (number or string) the way a form would send it.
func priceString(v interface{}) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return p
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64)
	default:
		return fmt.Sprint(p)
	}
}
