package class

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Class is a course published by a teacher.
// EnrolledStudents never exceeds MaxStudents and is only moved by the enrollment ledger.
type Class struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeacherID        primitive.ObjectID `bson:"teacher_id" json:"teacher_id"`
	Title            string             `bson:"title" json:"title"`
	Subject          string             `bson:"subject" json:"subject"`
	Description      string             `bson:"description" json:"description"`
	Price            float64            `bson:"price" json:"price"`
	Duration         string             `bson:"duration" json:"duration"`
	MaxStudents      int                `bson:"max_students" json:"max_students"`
	EnrolledStudents int                `bson:"enrolled_students" json:"enrolled_students"`
	Schedule         string             `bson:"schedule" json:"schedule"`
	MeetingLink      string             `bson:"meeting_link" json:"meeting_link"`
	Status           Status             `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"` // UTC
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"` // UTC
}

func (c Class) IsFull() bool { return c.EnrolledStudents >= c.MaxStudents }

func (c Class) IsOwnedBy(teacherID primitive.ObjectID) bool { return c.TeacherID == teacherID }

type NewClass struct {
	Title       string  `json:"title" validate:"required"`
	Subject     string  `json:"subject" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Duration    string  `json:"duration" validate:"required"`
	MaxStudents int     `json:"max_students" validate:"gte=1"`
	Schedule    string  `json:"schedule" validate:"required"`
	MeetingLink string  `json:"meeting_link" validate:"required"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Subject = core.CleanString(nc.Subject)
	nc.MeetingLink = core.CleanString(nc.MeetingLink)
	return validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify a class. Nil fields are left untouched.
type UpdateClass struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Subject     *string  `json:"subject" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Duration    *string  `json:"duration"`
	MaxStudents *int     `json:"max_students" validate:"omitempty,gte=1"`
	Schedule    *string  `json:"schedule"`
	MeetingLink *string  `json:"meeting_link"`
	Status      *Status  `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (uc *UpdateClass) IsEmpty() bool {
	return uc.Title == nil && uc.Subject == nil && uc.Description == nil && uc.Price == nil &&
		uc.Duration == nil && uc.MaxStudents == nil && uc.Schedule == nil && uc.MeetingLink == nil &&
		uc.Status == nil
}

func (uc *UpdateClass) Validate(validate *validator.Validate) error {
	return validate.Struct(uc)
}

// QueryFilter applies AND operation on its set fields. Subject is a case-insensitive match.
type QueryFilter struct {
	TeacherID primitive.ObjectID
	Subject   string
	Status    Status
}

// Query is the public classes catalogue query. Status defaults to active.
type Query struct {
	TeacherID string `query:"teacher_id"`
	Subject   string `query:"subject"`
	Status    string `query:"status"`
}

func (q Query) Filter() (QueryFilter, error) {
	qf := QueryFilter{
		Subject: core.CleanString(q.Subject),
		Status:  Status(core.CleanString(q.Status, true /* lower */)),
	}
	if teacherID := core.CleanString(q.TeacherID); teacherID != "" {
		id, err := core.ParseID(teacherID, "teacher")
		if err != nil {
			return QueryFilter{}, err
		}
		qf.TeacherID = id
	}
	switch qf.Status {
	case "":
		qf.Status = StatusActive
	case StatusActive, StatusInactive:
	default:
		return QueryFilter{}, core.NewInvalidInputError("Invalid class status")
	}
	return qf, nil
}
