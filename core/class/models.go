package class

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

type Class struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Level             int       `json:"level" db:"level"`
	HomeroomTeacherID string    `json:"homeroom_teacher_id" db:"homeroom_teacher_id"`
	AcademicYearID    string    `json:"academic_year_id" db:"academic_year_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	// read-only
	HomeroomTeacherName string `json:"homeroom_teacher_name" db:"homeroom_teacher_name"`
	Period              string `json:"period" db:"period"`
	MemberCount         int    `json:"member_count" db:"member_count"`
}

type Dependents struct {
	Memberships int `json:"memberships" db:"memberships"`
	Schedules   int `json:"schedules" db:"schedules"`
}

// Blocking returns the error preventing the deletion of a Class with these dependents, if any.
func (d Dependents) Blocking() error {
	switch {
	case d.Memberships > 0:
		return ErrHasMembers
	case d.Schedules > 0:
		return ErrHasSchedules
	}
	return nil
}

type NewClass struct {
	Name              string `json:"name" validate:"required,notblank,max=50"`
	Level             int    `json:"level" validate:"required,min=1,max=12"`
	HomeroomTeacherID string `json:"homeroom_teacher_id" validate:"required,uuid"`
	AcademicYearID    string `json:"academic_year_id" validate:"required,uuid"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

// UpdateClass defines what may be changed on a Class; zero fields are left unchanged.
type UpdateClass struct {
	Name              string `json:"name" validate:"omitempty,max=50"`
	Level             int    `json:"level" validate:"omitempty,min=1,max=12"`
	HomeroomTeacherID string `json:"homeroom_teacher_id" validate:"omitempty,uuid"`
}

func (uc *UpdateClass) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	return validate.Struct(uc)
}

type QueryFilter struct {
	AcademicYearID    string `query:"academic_year_id"`
	HomeroomTeacherID string `query:"homeroom_teacher_id"`
	Level             int    `query:"level"`
}

// Membership places a Student in a Class for an AcademicYear.
type Membership struct {
	ID             string    `json:"id" db:"id"`
	StudentID      string    `json:"student_id" db:"student_id"`
	ClassID        string    `json:"class_id" db:"class_id"`
	AcademicYearID string    `json:"academic_year_id" db:"academic_year_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// read-only
	StudentName string `json:"student_name" db:"student_name"`
	ClassName   string `json:"class_name" db:"class_name"`
	Period      string `json:"period" db:"period"`
}

type NewMembership struct {
	StudentID      string `json:"student_id" validate:"required,uuid"`
	ClassID        string `json:"class_id" validate:"required,uuid"`
	AcademicYearID string `json:"academic_year_id" validate:"required,uuid"`
}

func (nm *NewMembership) Validate(validate *validator.Validate) error {
	return validate.Struct(nm)
}

type MembershipFilter struct {
	StudentID      string `query:"student_id"`
	ClassID        string `query:"class_id"`
	AcademicYearID string `query:"academic_year_id"`
}
