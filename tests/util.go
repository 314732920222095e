package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/auth"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/services/logger"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/inmem"
)

// Password is the plaintext password of the users created by CreateUser.
const Password = "Pass-w0rd!"

// NewStore returns an empty in-memory store with the application indexes.
func NewStore(t *testing.T) *inmem.Store {
	store := inmem.New()
	if err := store.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store
}

// NewLogger returns a core.Logger that discards everything.
func NewLogger() core.Logger {
	return logsvc.NewRollbarLogger(zap.NewNop(), core.NewTestConfig())
}

// CreateUser persists a user with Password as password, hashed at the
// cheapest bcrypt cost. Teachers get the default image and one subject.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email string,
	role user.Role,
	verified bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash(t),
		Verified:     verified,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	}
	if usr.IsTeacher() {
		usr.ImageURL = user.DefaultImageURL
		usr.Subjects = []string{"Mathematics"}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateClass persists an active class owned by teacher.
func CreateClass(
	t *testing.T,
	repo class.Repository,
	teacher user.User,
	title string,
	price float64,
	maxStudents int,
	createdAt ...time.Time,
) class.Class {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	c, err := repo.CreateClass(context.Background(), class.Class{
		TeacherID:   teacher.ID,
		Title:       title,
		Subject:     "Mathematics",
		Description: title + " description",
		Price:       price,
		Duration:    "3 months",
		MaxStudents: maxStudents,
		Schedule:    "Mon, Wed 18:00",
		MeetingLink: "https://meet.example.com/" + teacher.ID.Hex(),
		Status:      class.StatusActive,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return c
}

var (
	pwdHash     string
	pwdHashOnce sync.Once
)

func passwordHash(t *testing.T) string {
	pwdHashOnce.Do(func() {
		hash, err := auth.NewBcryptHasher(bcrypt.MinCost).Hash(Password)
		if err != nil {
			t.Fatalf("passwordHash() failed: %v", err)
		}
		pwdHash = hash
	})
	return pwdHash
}
