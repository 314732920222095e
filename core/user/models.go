package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

// Role is the kind of account an identity holds.
type Role string

// Roles
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin" // the founder account, created by the admin CLI only
)

// DefaultImageURL is the profile picture given to new teachers.
const DefaultImageURL = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400&h=400&fit=crop"

func (r Role) String() string { return string(r) }

// IsPublic reports whether r can be chosen at signup/login.
func (r Role) IsPublic() bool {
	return r == RoleTeacher || r == RoleStudent
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Role         Role               `bson:"user_type" json:"user_type"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Verified     bool               `bson:"verified" json:"verified"`
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"` // UTC
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"` // UTC

	// teacher
	Subjects      []string `bson:"subjects,omitempty" json:"subjects,omitempty"`
	Experience    string   `bson:"experience,omitempty" json:"experience,omitempty"`
	Qualification string   `bson:"qualification,omitempty" json:"qualification,omitempty"`
	Bio           string   `bson:"bio,omitempty" json:"bio,omitempty"`
	HourlyRate    *float64 `bson:"hourly_rate,omitempty" json:"hourly_rate,omitempty"`
	Availability  []string `bson:"availability,omitempty" json:"availability,omitempty"`
	Rating        float64  `bson:"rating" json:"rating"`
	StudentsCount int      `bson:"students_count" json:"students_count"`

	// student
	Phone     string   `bson:"phone,omitempty" json:"phone,omitempty"`
	Grade     string   `bson:"grade,omitempty" json:"grade,omitempty"`
	Interests []string `bson:"interests,omitempty" json:"interests,omitempty"`
}

func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }

// NewUser contains information needed to sign up.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"user_type" validate:"required,role"`
	Password string `json:"password" validate:"required"`

	// teacher
	Subjects      []string `json:"subjects"`
	Experience    string   `json:"experience"`
	Qualification string   `json:"qualification"`
	Bio           string   `json:"bio"`
	HourlyRate    *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	Availability  []string `json:"availability"`

	// student
	Phone     string   `json:"phone"`
	Grade     string   `json:"grade"`
	Interests []string `json:"interests"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// Credentials is what a user logs in with.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"user_type" validate:"required,role"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

// UpdateUser defines what information may be provided to modify a profile. Nil fields are left untouched.
type UpdateUser struct {
	Name          *string   `json:"name" validate:"omitempty,min=1"`
	Subjects      *[]string `json:"subjects"`
	Experience    *string   `json:"experience"`
	Qualification *string   `json:"qualification"`
	Bio           *string   `json:"bio"`
	HourlyRate    *float64  `json:"hourly_rate" validate:"omitempty,gte=0"`
	Availability  *[]string `json:"availability"`
	Phone         *string   `json:"phone"`
	Grade         *string   `json:"grade"`
	Interests     *[]string `json:"interests"`
}

func (uu *UpdateUser) IsEmpty() bool {
	return uu.Name == nil && uu.Subjects == nil && uu.Experience == nil && uu.Qualification == nil &&
		uu.Bio == nil && uu.HourlyRate == nil && uu.Availability == nil && uu.Phone == nil &&
		uu.Grade == nil && uu.Interests == nil
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	if uu.Name != nil {
		name := core.CleanString(*uu.Name)
		uu.Name = &name
	}
	return validate.Struct(uu)
}

// QueryFilter applies AND operation on its set fields.
// Search does a case-insensitive match on one of User.Name or User.Subjects.
type QueryFilter struct {
	Role     Role
	Verified *bool
	Search   string
	Subject  string
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Subject = core.CleanString(qf.Subject)
}

// TeacherQuery is the public teachers directory query. VerifiedOnly defaults to true.
type TeacherQuery struct {
	Search       string `query:"search"`
	Subject      string `query:"subject"`
	VerifiedOnly *bool  `query:"verified_only"`
}

func (tq TeacherQuery) Filter() QueryFilter {
	qf := QueryFilter{Role: RoleTeacher, Search: tq.Search, Subject: tq.Subject}
	if tq.VerifiedOnly == nil || *tq.VerifiedOnly {
		verified := true
		qf.Verified = &verified
	}
	qf.Clean()
	return qf
}

// Session is returned on successful signup/login.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
}

func NewSession(token string, usr User) Session {
	return Session{AccessToken: token, TokenType: "bearer", User: &usr, IsAdmin: usr.IsAdmin()}
}
