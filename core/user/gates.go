package user

import (
	"strings"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

var (
	errOnlyTeachers = core.NewForbiddenError("Only teachers can access this resource")
	errOnlyStudents = core.NewForbiddenError("Only students can access this resource")
	errOnlyAdmins   = core.NewForbiddenError("Admin access required")
	errNotVerified  = core.NewForbiddenError("Teacher account is not verified yet")
)

// RequireRole passes usr through if it holds role, Forbidden otherwise.
func RequireRole(usr User, role Role) (User, error) {
	if usr.Role == role {
		return usr, nil
	}
	switch role {
	case RoleTeacher:
		return User{}, errOnlyTeachers
	case RoleStudent:
		return User{}, errOnlyStudents
	default:
		return User{}, errOnlyAdmins
	}
}

// RequireVerified passes usr through if it is verified, Forbidden otherwise.
func RequireVerified(usr User) (User, error) {
	if !usr.Verified {
		return User{}, errNotVerified
	}
	return usr, nil
}

// RequireVerifiedTeacher composes RequireRole(RoleTeacher) and RequireVerified, in that order.
func RequireVerifiedTeacher(usr User) (User, error) {
	usr, err := RequireRole(usr, RoleTeacher)
	if err != nil {
		return User{}, err
	}
	return RequireVerified(usr)
}

// Privileges decides who may run the admin operations.
// For now this is the founder account: an admin identity whose email is on the allow-list.
type Privileges struct {
	emails map[string]struct{}
}

func NewPrivileges(conf *core.Config) Privileges {
	emails := make(map[string]struct{}, len(conf.AdminEmails))
	for _, email := range conf.AdminEmails {
		emails[strings.ToLower(email)] = struct{}{}
	}
	return Privileges{emails: emails}
}

// IsPrivileged reports whether usr may run the admin operations.
func (p Privileges) IsPrivileged(usr User) bool {
	return usr.IsAdmin() && p.IsAllowedEmail(usr.Email)
}

// IsAllowedEmail reports whether email is on the allow-list.
func (p Privileges) IsAllowedEmail(email string) bool {
	_, ok := p.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// RequirePrivileged passes usr through if it is privileged, Forbidden otherwise.
func (p Privileges) RequirePrivileged(usr User) (User, error) {
	if !p.IsPrivileged(usr) {
		return User{}, errOnlyAdmins
	}
	return usr, nil
}
