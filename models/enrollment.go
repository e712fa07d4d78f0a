package models

import "time"

// Enrollment links a user to a course. The (UserID, CourseID) pair is unique.
// Progress is append-only and may hold the same section more than once.
type Enrollment struct {
	ID           string          `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID       string          `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course" bson:"user_id"`
	CourseID     string          `json:"courseId" gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course;index" bson:"course_id"`
	CourseLength int             `json:"course_Length" bson:"course_length"`
	Progress     []ProgressEntry `json:"progress" gorm:"foreignKey:EnrollmentID" bson:"progress"`
	CreatedAt    time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updated_at"`
}

// ProgressEntry marks one section completion. Seq is the entry's position in
// its enrollment's progress list, starting at 0.
type ProgressEntry struct {
	ID           string    `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	EnrollmentID string    `json:"-" gorm:"type:varchar(36);index;not null" bson:"-"`
	Seq          int       `json:"-" gorm:"not null;default:0" bson:"-"`
	SectionID    int       `json:"sectionId" bson:"section_id"`
	CompletedAt  time.Time `json:"completedAt" bson:"completed_at"`
}

func (ProgressEntry) TableName() string {
	return "enrollment_progress"
}

