package models

import "time"

// PriceFree is stored in place of a zero price.
const PriceFree = "free"

// Course is a teacher-authored course with its ordered sections embedded.
// Enrolled is a cached count of enrollments, not the source of truth.
type Course struct {
	ID          string    `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID      string    `json:"userId" gorm:"type:varchar(36);index;not null" bson:"user_id"`
	Educator    string    `json:"C_educator" gorm:"not null" bson:"educator"`
	Title       string    `json:"C_title" gorm:"not null" bson:"title"`
	Category    string    `json:"C_categories" gorm:"not null" bson:"category"`
	Price       string    `json:"C_price" bson:"price"`
	Description string    `json:"C_description" gorm:"type:text;not null" bson:"description"`
	Sections    []Section `json:"sections" gorm:"foreignKey:CourseID" bson:"sections"`
	Enrolled    int64     `json:"enrolled" gorm:"default:0" bson:"enrolled"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// Section is one unit of course content. Its index in Course.Sections is the
// sectionId used for progress tracking; Position mirrors that index for SQL ordering.
type Section struct {
	ID          string         `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	CourseID    string         `json:"-" gorm:"type:varchar(36);index;not null" bson:"-"`
	Position    int            `json:"-" gorm:"not null" bson:"position"`
	Title       string         `json:"S_title" gorm:"not null" bson:"title"`
	Description string         `json:"S_description" gorm:"type:text" bson:"description"`
	Content     SectionContent `json:"S_content" gorm:"embedded;embeddedPrefix:content_" bson:"content"`
}

func (Section) TableName() string {
	return "course_sections"
}
