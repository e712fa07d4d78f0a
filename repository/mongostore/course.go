package mongostore

import (
	"context"
	"time"

	"learnhub/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.Sections == nil {
		course.Sections = []models.Section{}
	}
	for i := range course.Sections {
		if course.Sections[i].ID == "" {
			course.Sections[i].ID = models.NewID()
		}
		course.Sections[i].CourseID = course.ID
		course.Sections[i].Position = i
	}
	now := time.Now()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	return insertOne(ctx, s.col(ColCourses), course)
}

func (s *Store) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	c, err := findOne[models.Course](ctx, s.col(ColCourses), bson.D{{Key: "_id", Value: id}})
	if c != nil {
		fillSectionOwner(c)
	}
	return c, err
}

func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.findCourses(ctx, bson.D{})
}

func (s *Store) ListCoursesByOwner(ctx context.Context, ownerID string) ([]*models.Course, error) {
	return s.findCourses(ctx, bson.D{{Key: "user_id", Value: ownerID}})
}

func (s *Store) ListCoursesByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}
	return s.findCourses(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
}

func (s *Store) findCourses(ctx context.Context, filter bson.D) ([]*models.Course, error) {
	courses, err := findMany[models.Course](ctx, s.col(ColCourses), filter, byCreatedAt())
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		fillSectionOwner(c)
	}
	return courses, nil
}

// DeleteCourse removes the course document; sections are embedded and go with it.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColCourses), id)
}

func (s *Store) SetEnrolledCount(ctx context.Context, courseID string, n int64) error {
	return updateByID(ctx, s.col(ColCourses), courseID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "enrolled", Value: n},
	}}})
}

func (s *Store) CompareAndSetEnrolled(ctx context.Context, courseID string, old, n int64) (bool, error) {
	if old == n {
		return true, nil
	}
	res, err := s.col(ColCourses).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: courseID}, {Key: "enrolled", Value: old}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "enrolled", Value: n}}}},
	)
	if err != nil {
		return false, wrapError(err)
	}
	return res.MatchedCount == 1, nil
}

func (s *Store) CountCourses(ctx context.Context) (int64, error) {
	return count(ctx, s.col(ColCourses), bson.D{})
}

// fillSectionOwner restores the fields that are implied by embedding.
func fillSectionOwner(c *models.Course) {
	if c.Sections == nil {
		c.Sections = []models.Section{}
	}
	for i := range c.Sections {
		c.Sections[i].CourseID = c.ID
	}
}
