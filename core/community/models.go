package community

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

type PostType string

const (
	PostAnnouncement PostType = "announcement"
	PostDiscussion   PostType = "discussion"
	PostResource     PostType = "resource"
)

// Feed sizes
const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 100
)

type Post struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title         string              `bson:"title" json:"title"`
	Content       string              `bson:"content" json:"content"`
	Type          PostType            `bson:"post_type" json:"post_type"`
	TeacherID     primitive.ObjectID  `bson:"teacher_id" json:"teacher_id"`
	ClassID       *primitive.ObjectID `bson:"class_id,omitempty" json:"class_id,omitempty"`
	Attachments   []string            `bson:"attachments" json:"attachments"`
	LikesCount    int                 `bson:"likes_count" json:"likes_count"`
	CommentsCount int                 `bson:"comments_count" json:"comments_count"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"` // UTC
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"` // UTC
}

type NewPost struct {
	Title       string   `json:"title" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	Type        PostType `json:"post_type" validate:"omitempty,oneof=announcement discussion resource"`
	ClassID     string   `json:"class_id" validate:"omitempty,objectid"`
	Attachments []string `json:"attachments"`
}

func (np *NewPost) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.ClassID = core.CleanString(np.ClassID)
	return validate.Struct(np)
}

type UpdatePost struct {
	Title   *string   `json:"title" validate:"omitempty,min=1"`
	Content *string   `json:"content" validate:"omitempty,min=1"`
	Type    *PostType `json:"post_type" validate:"omitempty,oneof=announcement discussion resource"`
}

func (up *UpdatePost) IsEmpty() bool {
	return up.Title == nil && up.Content == nil && up.Type == nil
}

func (up *UpdatePost) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}

// QueryFilter selects posts. Zero IDs are ignored; Limit 0 means no limit.
type QueryFilter struct {
	TeacherID primitive.ObjectID
	ClassID   primitive.ObjectID
	Limit     int64
}
