package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"learnhub/apperr"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

type CourseService struct {
	courses repository.CourseRepository
	log     *logger.Logger
}

func NewCourseService(courses repository.CourseRepository, log *logger.Logger) *CourseService {
	return &CourseService{courses: courses, log: log}
}

// CreateCourseInput carries a course and its sections as parallel arrays.
// Contents[i] belongs to section i; sections past len(Contents) get no file.
type CreateCourseInput struct {
	OwnerID             string
	Educator            string
	Title               string
	Category            string
	Price               string
	Description         string
	SectionTitles       []string
	SectionDescriptions []string
	Contents            []models.SectionContent
}

// NormalizePrice maps an empty or zero price to PriceFree.
func NormalizePrice(price string) string {
	p := strings.TrimSpace(price)
	if p == "" || strings.EqualFold(p, models.PriceFree) {
		return models.PriceFree
	}
	if f, err := strconv.ParseFloat(p, 64); err == nil && f == 0 {
		return models.PriceFree
	}
	return p
}

func (s *CourseService) Create(ctx context.Context, in CreateCourseInput) (*models.Course, error) {
	if in.SectionTitles == nil || in.SectionDescriptions == nil {
		return nil, apperr.Validation(map[string]string{"sections": "S_title and S_description must be arrays"})
	}
	if len(in.SectionTitles) != len(in.SectionDescriptions) {
		return nil, apperr.Validation(map[string]string{"sections": "S_title and S_description must have the same length"})
	}

	fields := map[string]string{}
	for i := range in.SectionTitles {
		if strings.TrimSpace(in.SectionTitles[i]) == "" {
			fields["S_title["+strconv.Itoa(i)+"]"] = "Section title is required"
		}
		if strings.TrimSpace(in.SectionDescriptions[i]) == "" {
			fields["S_description["+strconv.Itoa(i)+"]"] = "Section description is required"
		}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	course := &models.Course{
		ID:          models.NewID(),
		UserID:      in.OwnerID,
		Educator:    strings.TrimSpace(in.Educator),
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Price:       NormalizePrice(in.Price),
		Description: strings.TrimSpace(in.Description),
		Sections:    make([]models.Section, len(in.SectionTitles)),
	}
	for i, title := range in.SectionTitles {
		section := models.Section{
			ID:          models.NewID(),
			Position:    i,
			Title:       title,
			Description: in.SectionDescriptions[i],
		}
		if i < len(in.Contents) {
			section.Content = in.Contents[i]
		}
		course.Sections[i] = section
	}

	if err := s.courses.CreateCourse(ctx, course); err != nil {
		return nil, apperr.Internal("Failed to create course", err)
	}
	s.log.Info("course created", "courseId", course.ID, "ownerId", course.UserID, "sections", len(course.Sections))
	return course, nil
}

func (s *CourseService) ListAll(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve courses", err)
	}
	if len(courses) == 0 {
		return nil, apperr.NotFound("no_courses", "No Courses Found")
	}
	return courses, nil
}

func (s *CourseService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Course, error) {
	courses, err := s.courses.ListCoursesByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch courses", err)
	}
	if len(courses) == 0 {
		return nil, apperr.NotFound("no_courses", "No Courses Found")
	}
	return courses, nil
}

// Delete removes the course only; enrollments and payments stay behind.
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	if err := s.courses.DeleteCourse(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("course_not_found", "Course not found")
		}
		return apperr.Internal("Failed to delete course", err)
	}
	s.log.Info("course deleted", "courseId", courseID)
	return nil
}
