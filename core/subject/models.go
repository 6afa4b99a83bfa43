package subject

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

type Subject struct {
	ID        string    `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Dependents struct {
	Schedules int `json:"schedules" db:"schedules"`
	Grades    int `json:"grades" db:"grades"`
}

// Blocking returns the error preventing the deletion of a Subject with these dependents, if any.
func (d Dependents) Blocking() error {
	switch {
	case d.Schedules > 0:
		return ErrHasSchedules
	case d.Grades > 0:
		return ErrHasGrades
	}
	return nil
}

type NewSubject struct {
	Code string `json:"code" validate:"required,max=20,alphanum_"`
	Name string `json:"name" validate:"required,notblank,max=100"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Code = core.CleanString(ns.Code)
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// UpdateSubject defines what may be changed on a Subject; empty fields are left unchanged.
type UpdateSubject struct {
	Code string `json:"code" validate:"omitempty,max=20,alphanum_"`
	Name string `json:"name" validate:"omitempty,max=100"`
}

func (us *UpdateSubject) Validate(orig Subject, validate *validator.Validate) error {
	if code := core.CleanString(us.Code); code != "" {
		us.Code = code
	} else {
		us.Code = orig.Code
	}
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	return validate.Struct(us)
}

type GetFilter struct {
	ID   string
	Code string
}
