package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Role is the closed set of user roles; each one gets its own dashboard.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Role         Role      `json:"role" db:"role"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username        string `json:"username" validate:"required,max=50,alphanum_"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            Role   `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	return validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Zero values are left unchanged.
type UpdateUser struct {
	Username        string `json:"username" validate:"omitempty,max=50,alphanum_"`
	Role            Role   `json:"role" validate:"omitempty,role"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate) error {
	if uname := core.CleanString(uu.Username, true /* lower */); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}
	if uu.Role == "" {
		uu.Role = origUsr.Role
	}
	return validate.Struct(uu)
}

type QueryFilter struct {
	Role Role `query:"role"`
}

type GetFilter struct {
	ID       string
	Username string
}

// Dependents counts the profiles still attached to a User.
type Dependents struct {
	TeacherProfiles int `json:"teacher_profiles" db:"teacher_profiles"`
	StudentProfiles int `json:"student_profiles" db:"student_profiles"`
}

// Blocking returns the error preventing the deletion of a User with these dependents, if any.
func (d Dependents) Blocking() error {
	switch {
	case d.TeacherProfiles > 0:
		return ErrHasTeacherProfile
	case d.StudentProfiles > 0:
		return ErrHasStudentProfile
	}
	return nil
}

// RoleChangeBlocked returns the error preventing a User with these dependents from taking role, if any.
func (d Dependents) RoleChangeBlocked(role Role) error {
	switch {
	case d.TeacherProfiles > 0 && role != RoleTeacher:
		return ErrRoleKeepsTeacherProfile
	case d.StudentProfiles > 0 && role != RoleStudent:
		return ErrRoleKeepsStudentProfile
	}
	return nil
}
