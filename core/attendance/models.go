package attendance

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

const DateLayout = "2006-01-02"

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusExcused Status = "excused"
	StatusSick    Status = "sick"
	StatusLate    Status = "late"
)

var Statuses = []Status{StatusPresent, StatusAbsent, StatusExcused, StatusSick, StatusLate}

func (s Status) IsValid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

var (
	statusTag  = "attendancestatus"
	statusText = "must be one of present, absent, excused, sick or late"

	dateTag  = "date"
	dateText = "must be a date formatted as YYYY-MM-DD"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(dateTag, func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	core.RegisterCustomTranslation(validate, translator, dateTag, dateText)
}

type Record struct {
	ID         string      `json:"id" db:"id"`
	StudentID  string      `json:"student_id" db:"student_id"`
	ScheduleID string      `json:"schedule_id" db:"schedule_id"`
	Date       time.Time   `json:"date" db:"date"`
	Status     Status      `json:"status" db:"status"`
	Note       null.String `json:"note" db:"note"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`

	// read-only
	StudentName string `json:"student_name" db:"student_name"`
}

type NewRecord struct {
	StudentID  string `json:"student_id" validate:"required,uuid"`
	ScheduleID string `json:"schedule_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,date"`
	Status     Status `json:"status" validate:"required,attendancestatus"`
	Note       string `json:"note" validate:"omitempty,max=255"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.Status = Status(core.CleanString(string(nr.Status), true /* lower */))
	nr.Date = core.CleanString(nr.Date)
	return validate.Struct(nr)
}

// QueryFilter applies AND on its set fields. Records come latest date first.
type QueryFilter struct {
	ScheduleID string `query:"schedule_id"`
	StudentID  string `query:"student_id"`
	Limit      int
}
