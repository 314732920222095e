package user

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/auth"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")

	errEmailRegistered   = core.NewInvalidInputError("Email already registered")
	errBadCredentials    = core.NewUnauthenticatedError("Incorrect email or password")
	errBadAdminLogin     = core.NewUnauthenticatedError("Invalid admin credentials")
	errTeacherNotFound   = core.NewNotFoundError("Teacher not found")
	errUserNotFound      = core.NewNotFoundError("User not found")
	errNothingToUpdate   = core.NewInvalidInputError("No fields to update")
	errOwnProfileOnly    = core.NewForbiddenError("You can only update your own profile")
	errNegativeRate      = core.NewInvalidInputError("Hourly rate must be positive")
	errNotAllowedAsAdmin = errors.New("email is not on the admin allow-list")
)

type (
	Repository interface {
		Finder
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		FilterUsers(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]User, error)
		UpdateUser(ctx context.Context, id primitive.ObjectID, uu UpdateUser, now time.Time) (User, error)
		SetImageURL(ctx context.Context, id primitive.ObjectID, url string, now time.Time) (User, error)
		SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string, now time.Time) error
	}

	Service interface {
		Signup(ctx context.Context, nu NewUser) (Session, error)
		Login(ctx context.Context, creds Credentials) (Session, error)
		AdminLogin(ctx context.Context, email, password string) (Session, error)
		Resolve(ctx context.Context, token string) (User, error)
		Privileges() Privileges
		GetByID(ctx context.Context, id primitive.ObjectID) (User, error)
		QueryTeachers(ctx context.Context, query TeacherQuery) ([]User, error)
		GetTeacher(ctx context.Context, id primitive.ObjectID) (User, error)
		UpdateTeacher(ctx context.Context, actor User, id primitive.ObjectID, uu UpdateUser) (User, error)
		SetImageURL(ctx context.Context, usr User, url string) (User, error)
		SetHourlyRate(ctx context.Context, teacher User, rate float64) (User, error)
		CreateFounder(ctx context.Context, name, email, password string) (User, error)
	}

	service struct {
		repo     Repository
		hasher   auth.Hasher
		codec    auth.TokenCodec
		resolver *Resolver
		privs    Privileges
		nowFunc  func() time.Time // mockable
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, repo Repository, hasher auth.Hasher, codec auth.TokenCodec) Service {
	return &service{
		repo:     repo,
		hasher:   hasher,
		codec:    codec,
		resolver: NewResolver(codec, repo),
		privs:    NewPrivileges(conf),
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Signup(ctx context.Context, nu NewUser) (Session, error) {
	if _, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return Session{}, errEmailRegistered
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, errors.Wrap(err, "finding user by email")
	}

	hash, err := svc.hasher.Hash(nu.Password)
	if err != nil {
		return Session{}, errors.Wrap(err, "hashing password")
	}

	now := svc.nowFunc()
	usr := User{
		Name:          nu.Name,
		Email:         nu.Email,
		Role:          nu.Role,
		PasswordHash:  hash,
		Verified:      nu.Role == RoleStudent, // teachers need approval
		CreatedAt:     now,
		UpdatedAt:     now,
		Subjects:      nu.Subjects,
		Experience:    nu.Experience,
		Qualification: nu.Qualification,
		Bio:           nu.Bio,
		HourlyRate:    nu.HourlyRate,
		Availability:  nu.Availability,
		Phone:         nu.Phone,
		Grade:         nu.Grade,
		Interests:     nu.Interests,
	}
	if usr.IsTeacher() {
		usr.ImageURL = DefaultImageURL
	}

	usr, err = svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return Session{}, errEmailRegistered
		}
		return Session{}, errors.Wrap(err, "creating user")
	}
	return svc.session(usr)
}

func (svc *service) Login(ctx context.Context, creds Credentials) (Session, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, errBadCredentials
		}
		return Session{}, errors.Wrap(err, "finding user by email")
	}
	if usr.Role != creds.Role {
		return Session{}, core.NewUnauthenticatedError(
			fmt.Sprintf("This email is registered as %s, not %s", usr.Role, creds.Role),
		)
	}
	if !svc.hasher.Verify(creds.Password, usr.PasswordHash) {
		return Session{}, errBadCredentials
	}
	return svc.session(usr)
}

// AdminLogin authenticates the founder account.
func (svc *service) AdminLogin(ctx context.Context, email, password string) (Session, error) {
	email = core.CleanString(email, true /* lower */)
	if !svc.privs.IsAllowedEmail(email) {
		return Session{}, errBadAdminLogin
	}
	usr, err := svc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, errBadAdminLogin
		}
		return Session{}, errors.Wrap(err, "finding user by email")
	}
	if !svc.privs.IsPrivileged(usr) || !svc.hasher.Verify(password, usr.PasswordHash) {
		return Session{}, errBadAdminLogin
	}

	sess, err := svc.session(usr)
	if err != nil {
		return Session{}, err
	}
	sess.User = nil
	return sess, nil
}

func (svc *service) session(usr User) (Session, error) {
	token, err := svc.codec.Issue(usr.ID.Hex(), usr.Role.String())
	if err != nil {
		return Session{}, errors.Wrap(err, "issuing token")
	}
	return NewSession(token, usr), nil
}

func (svc *service) Resolve(ctx context.Context, token string) (User, error) {
	return svc.resolver.Resolve(ctx, token)
}

func (svc *service) Privileges() Privileges {
	return svc.privs
}

func (svc *service) GetByID(ctx context.Context, id primitive.ObjectID) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, errUserNotFound
		}
		return User{}, errors.Wrap(err, "finding user by ID")
	}
	return usr, nil
}

func (svc *service) QueryTeachers(ctx context.Context, query TeacherQuery) ([]User, error) {
	return svc.repo.FilterUsers(ctx, query.Filter())
}

func (svc *service) GetTeacher(ctx context.Context, id primitive.ObjectID) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, errTeacherNotFound
		}
		return User{}, errors.Wrap(err, "finding user by ID")
	}
	if !usr.IsTeacher() {
		return User{}, errTeacherNotFound
	}
	return usr, nil
}

// UpdateTeacher updates a teacher's own profile.
func (svc *service) UpdateTeacher(ctx context.Context, actor User, id primitive.ObjectID, uu UpdateUser) (User, error) {
	if actor.ID != id {
		return User{}, errOwnProfileOnly
	}
	if uu.IsEmpty() {
		return User{}, errNothingToUpdate
	}
	usr, err := svc.repo.UpdateUser(ctx, id, uu, svc.nowFunc())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, errTeacherNotFound
		}
		return User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (svc *service) SetImageURL(ctx context.Context, usr User, url string) (User, error) {
	usr, err := svc.repo.SetImageURL(ctx, usr.ID, url, svc.nowFunc())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, errUserNotFound
		}
		return User{}, errors.Wrap(err, "setting image URL")
	}
	return usr, nil
}

func (svc *service) SetHourlyRate(ctx context.Context, teacher User, rate float64) (User, error) {
	if rate < 0 {
		return User{}, errNegativeRate
	}
	usr, err := svc.repo.UpdateUser(ctx, teacher.ID, UpdateUser{HourlyRate: &rate}, svc.nowFunc())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, errTeacherNotFound
		}
		return User{}, errors.Wrap(err, "setting hourly rate")
	}
	return usr, nil
}

// CreateFounder creates the founder account, or resets its password if it already exists.
func (svc *service) CreateFounder(ctx context.Context, name, email, password string) (User, error) {
	email = core.CleanString(email, true /* lower */)
	if !svc.privs.IsAllowedEmail(email) {
		return User{}, errNotAllowedAsAdmin
	}
	hash, err := svc.hasher.Hash(password)
	if err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	now := svc.nowFunc()
	usr, err := svc.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !usr.IsAdmin() {
			return User{}, errors.Errorf("%s is registered as %s", email, usr.Role)
		}
		if err = svc.repo.SetPasswordHash(ctx, usr.ID, hash, now); err != nil {
			return User{}, errors.Wrap(err, "setting password")
		}
		usr.PasswordHash = hash
		return usr, nil
	case errors.Is(err, ErrNotFound):
		usr = User{
			Name:         core.CleanString(name),
			Email:        email,
			Role:         RoleAdmin,
			PasswordHash: hash,
			Verified:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		usr, err = svc.repo.CreateUser(ctx, usr)
		return usr, errors.Wrap(err, "creating user")
	default:
		return User{}, errors.Wrap(err, "finding user by email")
	}
}
