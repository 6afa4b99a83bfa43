package grade

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

type Semester string

const (
	SemesterOdd  Semester = "odd"
	SemesterEven Semester = "even"
)

func (s Semester) IsValid() bool { return s == SemesterOdd || s == SemesterEven }

// Type is the kind of assessment a grade was given for.
type Type string

const (
	TypeQuiz       Type = "quiz"
	TypeAssignment Type = "assignment"
	TypeMidterm    Type = "midterm"
	TypeFinal      Type = "final"
)

// Types are ordered the way they happen during a semester.
var Types = []Type{TypeQuiz, TypeAssignment, TypeMidterm, TypeFinal}

// Index is the position of t in Types; -1 if t is not a Type.
func (t Type) Index() int {
	for i, typ := range Types {
		if t == typ {
			return i
		}
	}
	return -1
}

func (t Type) IsValid() bool { return t.Index() >= 0 }

var (
	semesterTag  = "semester"
	semesterText = "must be odd or even"

	typeTag  = "gradetype"
	typeText = "must be one of quiz, assignment, midterm or final"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(semesterTag, func(fl validator.FieldLevel) bool {
		return Semester(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, semesterTag, semesterText)

	_ = validate.RegisterValidation(typeTag, func(fl validator.FieldLevel) bool {
		return Type(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)
}

type Grade struct {
	ID             string    `json:"id" db:"id"`
	StudentID      string    `json:"student_id" db:"student_id"`
	SubjectID      string    `json:"subject_id" db:"subject_id"`
	TeacherID      string    `json:"teacher_id" db:"teacher_id"`
	AcademicYearID string    `json:"academic_year_id" db:"academic_year_id"`
	Semester       Semester  `json:"semester" db:"semester"`
	Type           Type      `json:"grade_type" db:"grade_type"`
	Score          float64   `json:"score" db:"score"`
	InputAt        time.Time `json:"input_at" db:"input_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	// read-only
	StudentName string `json:"student_name" db:"student_name"`
	SubjectName string `json:"subject_name" db:"subject_name"`
	TeacherName string `json:"teacher_name" db:"teacher_name"`
	Period      string `json:"period" db:"period"`
}

// Key identifies a Grade: a student gets at most one grade per key.
type Key struct {
	StudentID      string
	SubjectID      string
	AcademicYearID string
	Semester       Semester
	Type           Type
}

func (g Grade) Key() Key {
	return Key{
		StudentID:      g.StudentID,
		SubjectID:      g.SubjectID,
		AcademicYearID: g.AcademicYearID,
		Semester:       g.Semester,
		Type:           g.Type,
	}
}

type NewGrade struct {
	StudentID      string   `json:"student_id" validate:"required,uuid"`
	SubjectID      string   `json:"subject_id" validate:"required,uuid"`
	TeacherID      string   `json:"teacher_id" validate:"required,uuid"`
	AcademicYearID string   `json:"academic_year_id" validate:"required,uuid"`
	Semester       Semester `json:"semester" validate:"required,semester"`
	Type           Type     `json:"grade_type" validate:"required,gradetype"`
	Score          *float64 `json:"score" validate:"required,min=0,max=100"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Semester = Semester(core.CleanString(string(ng.Semester), true /* lower */))
	ng.Type = Type(core.CleanString(string(ng.Type), true /* lower */))
	return validate.Struct(ng)
}

type UpdateGrade struct {
	Score *float64 `json:"score" validate:"required,min=0,max=100"`
}

func (ug *UpdateGrade) Validate(validate *validator.Validate) error {
	return validate.Struct(ug)
}

// QueryFilter applies AND on its set fields.
// Grades come latest input first, or by grade type then student name when ClassID is set.
type QueryFilter struct {
	StudentID      string   `query:"student_id"`
	SubjectID      string   `query:"subject_id"`
	TeacherID      string   `query:"teacher_id"`
	AcademicYearID string   `query:"academic_year_id"`
	Semester       Semester `query:"semester"`
	// ClassID keeps the grades of the class members only.
	ClassID string `query:"class_id"`
}
