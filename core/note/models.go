package note

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

// Note is study material written by a teacher, optionally attached to one of their classes.
type Note struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title     string              `bson:"title" json:"title"`
	Content   string              `bson:"content" json:"content"`
	ClassID   *primitive.ObjectID `bson:"class_id,omitempty" json:"class_id,omitempty"`
	TeacherID primitive.ObjectID  `bson:"teacher_id" json:"teacher_id"`
	IsPublic  bool                `bson:"is_public" json:"is_public"`
	Tags      []string            `bson:"tags" json:"tags"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"` // UTC
}

// NewNote is public unless IsPublic says otherwise.
type NewNote struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	ClassID  string   `json:"class_id" validate:"omitempty,objectid"`
	IsPublic *bool    `json:"is_public"`
	Tags     []string `json:"tags"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.ClassID = core.CleanString(nn.ClassID)
	return validate.Struct(nn)
}

type UpdateNote struct {
	Title    *string   `json:"title" validate:"omitempty,min=1"`
	Content  *string   `json:"content" validate:"omitempty,min=1"`
	IsPublic *bool     `json:"is_public"`
	Tags     *[]string `json:"tags"`
}

func (un *UpdateNote) IsEmpty() bool {
	return un.Title == nil && un.Content == nil && un.IsPublic == nil && un.Tags == nil
}

func (un *UpdateNote) Validate(validate *validator.Validate) error {
	return validate.Struct(un)
}
