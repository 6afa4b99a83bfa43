package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

type Teacher struct {
	ID        string      `json:"id" db:"id"`
	UserID    string      `json:"user_id" db:"user_id"`
	Name      string      `json:"name" db:"name"`
	NIP       null.String `json:"nip" db:"nip"` // national employee number
	Address   null.String `json:"address" db:"address"`
	Phone     null.String `json:"phone" db:"phone"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`

	// owning user, read-only
	Username string    `json:"username" db:"username"`
	Role     user.Role `json:"role" db:"role"`
}

type Dependents struct {
	HomeroomClasses int `json:"homeroom_classes" db:"homeroom_classes"`
	Schedules       int `json:"schedules" db:"schedules"`
	Grades          int `json:"grades" db:"grades"`
}

// Blocking returns the error preventing the deletion of a Teacher with these dependents, if any.
func (d Dependents) Blocking() error {
	switch {
	case d.HomeroomClasses > 0:
		return ErrIsHomeroomTeacher
	case d.Schedules > 0:
		return ErrHasSchedules
	case d.Grades > 0:
		return ErrHasGrades
	}
	return nil
}

type NewTeacher struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	Name    string `json:"name" validate:"required,notblank,max=100"`
	NIP     string `json:"nip" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.UserID = core.CleanString(nt.UserID)
	nt.Name = core.CleanString(nt.Name)
	return validate.Struct(nt)
}

// UpdateTeacher defines the profile fields that may be changed; nil fields are left unchanged and
// empty optional fields are cleared.
type UpdateTeacher struct {
	Name    *string `json:"name" validate:"omitempty,notblank,max=100"`
	NIP     *string `json:"nip" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate) error {
	if ut.Name != nil {
		name := core.CleanString(*ut.Name)
		ut.Name = &name
	}
	return validate.Struct(ut)
}

func (ut UpdateTeacher) apply(t *Teacher) {
	if ut.Name != nil && *ut.Name != "" {
		t.Name = *ut.Name
	}
	if ut.NIP != nil {
		t.NIP = core.NullString(*ut.NIP)
	}
	if ut.Address != nil {
		t.Address = core.NullString(*ut.Address)
	}
	if ut.Phone != nil {
		t.Phone = core.NullString(*ut.Phone)
	}
}

type GetFilter struct {
	ID     string
	UserID string
}

type QueryFilter struct {
	// NewestFirst orders by creation date instead of name.
	NewestFirst bool
	Limit       int
}
