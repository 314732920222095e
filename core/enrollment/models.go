package enrollment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Enrollment admits a student into a class.
// TeacherID and Amount are copied from the class at enrollment time.
type Enrollment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID       primitive.ObjectID `bson:"student_id" json:"student_id"`
	ClassID         primitive.ObjectID `bson:"class_id" json:"class_id"`
	TeacherID       primitive.ObjectID `bson:"teacher_id" json:"teacher_id"`
	Amount          float64            `bson:"amount" json:"amount"`
	EnrolledDate    time.Time          `bson:"enrolled_date" json:"enrolled_date"` // UTC
	Status          Status             `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus      `bson:"payment_status" json:"payment_status"`
	PaymentIntentID string             `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`
}

func (e Enrollment) IsParty(userID primitive.ObjectID) bool {
	return e.StudentID == userID || e.TeacherID == userID
}

type NewEnrollment struct {
	ClassID string `json:"class_id" validate:"required"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.ClassID = core.CleanString(ne.ClassID)
	return validate.Struct(ne)
}

// QueryFilter applies AND operation on its set fields.
type QueryFilter struct {
	StudentID     primitive.ObjectID
	TeacherID     primitive.ObjectID
	ClassID       primitive.ObjectID
	Status        Status
	PaymentStatus PaymentStatus
	Limit         int64
}
