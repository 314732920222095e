package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	ClassID     primitive.ObjectID `bson:"class_id" json:"class_id"`
	TeacherID   primitive.ObjectID `bson:"teacher_id" json:"teacher_id"`
	DueDate     time.Time          `bson:"due_date" json:"due_date"` // UTC
	TotalMarks  int                `bson:"total_marks" json:"total_marks"`
	Status      Status             `bson:"status" json:"status"`
	Attachments []string           `bson:"attachments" json:"attachments"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"` // UTC
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"` // UTC
}

// NewAssignment is published unless Status says otherwise.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	ClassID     string    `json:"class_id" validate:"required,objectid"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	TotalMarks  int       `json:"total_marks" validate:"gte=0"`
	Status      Status    `json:"status" validate:"omitempty,oneof=draft published closed"`
	Attachments []string  `json:"attachments"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.ClassID = core.CleanString(na.ClassID)
	return validate.Struct(na)
}

type UpdateAssignment struct {
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	TotalMarks  *int       `json:"total_marks" validate:"omitempty,gte=0"`
	Status      *Status    `json:"status" validate:"omitempty,oneof=draft published closed"`
}

func (ua *UpdateAssignment) IsEmpty() bool {
	return ua.Title == nil && ua.Description == nil && ua.DueDate == nil && ua.TotalMarks == nil && ua.Status == nil
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	return validate.Struct(ua)
}
