package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

type Student struct {
	ID        string      `json:"id" db:"id"`
	UserID    null.String `json:"user_id" db:"user_id"` // login account, optional
	Name      string      `json:"name" db:"name"`
	NIS       null.String `json:"nis" db:"nis"` // student number
	Address   null.String `json:"address" db:"address"`
	Phone     null.String `json:"phone" db:"phone"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`

	Username null.String `json:"username" db:"username"`
}

type Dependents struct {
	Memberships int `json:"memberships" db:"memberships"`
	Attendances int `json:"attendances" db:"attendances"`
	Grades      int `json:"grades" db:"grades"`
}

// Blocking returns the error preventing the deletion of a Student with these dependents, if any.
func (d Dependents) Blocking() error {
	switch {
	case d.Memberships > 0:
		return ErrHasMemberships
	case d.Attendances > 0:
		return ErrHasAttendances
	case d.Grades > 0:
		return ErrHasGrades
	}
	return nil
}

type NewStudent struct {
	UserID  string `json:"user_id" validate:"omitempty,uuid"`
	Name    string `json:"name" validate:"required,notblank,max=100"`
	NIS     string `json:"nis" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.UserID = core.CleanString(ns.UserID)
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// UpdateStudent defines the profile fields that may be changed; nil fields are left unchanged and
// empty optional fields are cleared.
type UpdateStudent struct {
	Name    *string `json:"name" validate:"omitempty,notblank,max=100"`
	NIS     *string `json:"nis" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		us.Name = &name
	}
	return validate.Struct(us)
}

func (us UpdateStudent) apply(s *Student) {
	if us.Name != nil && *us.Name != "" {
		s.Name = *us.Name
	}
	if us.NIS != nil {
		s.NIS = core.NullString(*us.NIS)
	}
	if us.Address != nil {
		s.Address = core.NullString(*us.Address)
	}
	if us.Phone != nil {
		s.Phone = core.NullString(*us.Phone)
	}
}

type GetFilter struct {
	ID     string
	UserID string
}

type QueryFilter struct {
	// ClassID keeps the members of that class only.
	ClassID     string `query:"class_id"`
	NewestFirst bool
	Limit       int
}
