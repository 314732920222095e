package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Type string

const (
	TypeClassReminder Type = "class_reminder"
	TypeAssignmentDue Type = "assignment_due"
	TypeNewContent    Type = "new_content"
	TypeEnrollment    Type = "enrollment"
	TypePayment       Type = "payment"
	TypeMessage       Type = "message"
)

// Notification is an in-app message for one user.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserType  string             `bson:"user_type" json:"user_type"`
	Type      Type               `bson:"notification_type" json:"notification_type"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"` // UTC
}

type NewNotification struct {
	UserID   primitive.ObjectID
	UserType string
	Type     Type
	Title    string
	Message  string
	Link     string
}

type QueryFilter struct {
	UnreadOnly bool  `query:"unread_only"`
	Limit      int64 `query:"limit"`
}
