package rating

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

// Rating is a student's review of a teacher for one class.
type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeacherID primitive.ObjectID `bson:"teacher_id" json:"teacher_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	ClassID   primitive.ObjectID `bson:"class_id" json:"class_id"`
	Rating    int                `bson:"rating" json:"rating"`
	Review    string             `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"` // UTC
}

type NewRating struct {
	TeacherID string `json:"teacher_id" validate:"required,objectid"`
	ClassID   string `json:"class_id" validate:"required,objectid"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Review    string `json:"review"`
}

func (nr *NewRating) Validate(validate *validator.Validate) error {
	nr.TeacherID = core.CleanString(nr.TeacherID)
	nr.ClassID = core.CleanString(nr.ClassID)
	nr.Review = core.CleanString(nr.Review)
	return validate.Struct(nr)
}
