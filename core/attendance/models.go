package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

// DateLayout is the calendar day format records are keyed by.
const DateLayout = "2006-01-02"

// Record is one student's presence at one class on one day.
type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClassID   primitive.ObjectID `bson:"class_id" json:"class_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	Date      string             `bson:"date" json:"date"`
	Status    Status             `bson:"status" json:"status"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"` // UTC
}

type NewRecord struct {
	ClassID   string `json:"class_id" validate:"required,objectid"`
	StudentID string `json:"student_id" validate:"required,objectid"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    Status `json:"status" validate:"required,oneof=present absent late"`
	Notes     string `json:"notes"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.ClassID = core.CleanString(nr.ClassID)
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.Date = core.CleanString(nr.Date)
	return validate.Struct(nr)
}

// QueryFilter selects records. Zero IDs are ignored.
type QueryFilter struct {
	ClassID   primitive.ObjectID
	StudentID primitive.ObjectID
	CreatedBy primitive.ObjectID
}
