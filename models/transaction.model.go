package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentRecord snapshots the enrollment request; written once per enrollment and never updated.
type PaymentRecord struct {
	ID        string            `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID    string            `json:"userId" gorm:"type:varchar(36);index;not null" bson:"user_id"`
	CourseID  string            `json:"courseId" gorm:"type:varchar(36);index;not null" bson:"course_id"`
	Details   datatypes.JSONMap `json:"details" bson:"details"`
	CreatedAt time.Time         `json:"createdAt" bson:"created_at"`
}

func (PaymentRecord) TableName() string {
	return "course_payments"
}
