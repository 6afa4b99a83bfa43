package academicyear

import (
	"regexp"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

var (
	periodTag   = "period"
	periodText  = "period must look like 2024/2025"
	periodRegex = regexp.MustCompile(`^\d{4}/\d{4}$`)
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(periodTag, func(fl validator.FieldLevel) bool {
		return periodRegex.MatchString(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, periodTag, periodText)
}

type AcademicYear struct {
	ID        string    `json:"id" db:"id"`
	Period    string    `json:"period" db:"period"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Detail is an AcademicYear along with the number of records referencing it.
type Detail struct {
	AcademicYear
	Counts Dependents `json:"counts"`
}

type Dependents struct {
	Classes     int `json:"classes" db:"classes"`
	Grades      int `json:"grades" db:"grades"`
	Memberships int `json:"memberships" db:"memberships"`
}

// Blocking returns the error preventing the deletion of an AcademicYear with these dependents, if any.
func (d Dependents) Blocking() error {
	switch {
	case d.Classes > 0:
		return ErrHasClasses
	case d.Grades > 0:
		return ErrHasGrades
	case d.Memberships > 0:
		return ErrHasMemberships
	}
	return nil
}

type NewYear struct {
	Period   string `json:"period" validate:"required,period"`
	IsActive bool   `json:"is_active"`
}

func (ny *NewYear) Validate(validate *validator.Validate) error {
	ny.Period = core.CleanString(ny.Period)
	return validate.Struct(ny)
}

// UpdateYear holds the changes to apply to an AcademicYear; nil fields are left unchanged.
type UpdateYear struct {
	Period   *string `json:"period" validate:"omitempty,period"`
	IsActive *bool   `json:"is_active"`
}

func (uy *UpdateYear) Validate(validate *validator.Validate) error {
	if uy.Period != nil {
		p := core.CleanString(*uy.Period)
		uy.Period = &p
	}
	return validate.Struct(uy)
}

type GetFilter struct {
	ID     string
	Period string
	Active bool
}
