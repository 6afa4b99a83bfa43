package schedule

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// Day is a day of the week.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index is the position of d in the week, Monday first; -1 if d is not a Day.
func (d Day) Index() int {
	for i, day := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

func (d Day) IsValid() bool { return d.Index() >= 0 }

// TimeOfDay is a time of the day, in minutes since midnight. It reads and writes as "HH:MM".
type TimeOfDay int

// EndOfDay is midnight at the end of the day, written "24:00". Only an end time may hold it.
const EndOfDay TimeOfDay = 24 * 60

var (
	errInvalidTimeOfDay = errors.New(`time of day must be formatted as "HH:MM"`)
	timeOfDayRegex      = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses a "HH:MM" 24h clock time.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, errInvalidTimeOfDay
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return NewTimeOfDay(h, min), nil
}

func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseEndTimeOfDay is ParseTimeOfDay that also accepts "24:00" as EndOfDay.
func ParseEndTimeOfDay(s string) (TimeOfDay, error) {
	if s == EndOfDay.String() {
		return EndOfDay, nil
	}
	return ParseTimeOfDay(s)
}

func MustParseEndTimeOfDay(s string) TimeOfDay {
	t, err := ParseEndTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errInvalidTimeOfDay
	}
	parsed, err := ParseEndTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Entry assigns a teacher to teach a subject to a class on a day, within [Start, End).
type Entry struct {
	ID        string    `json:"id" db:"id"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	SubjectID string    `json:"subject_id" db:"subject_id"`
	ClassID   string    `json:"class_id" db:"class_id"`
	Day       Day       `json:"day" db:"day"`
	Start     TimeOfDay `json:"start" db:"start_minute"`
	End       TimeOfDay `json:"end" db:"end_minute"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// read-only
	TeacherName string `json:"teacher_name" db:"teacher_name"`
	SubjectCode string `json:"subject_code" db:"subject_code"`
	SubjectName string `json:"subject_name" db:"subject_name"`
	ClassName   string `json:"class_name" db:"class_name"`
}

func (e Entry) Interval() Interval { return Interval{Start: e.Start, End: e.End} }

// Validators

var (
	weekdayTag  = "weekday"
	weekdayText = "must be a day of the week (monday to sunday)"

	hhmmTag  = "hhmm"
	hhmmText = `must be a time formatted as "HH:MM"`

	hhmmEndTag  = "hhmmend"
	hhmmEndText = `must be a time formatted as "HH:MM", up to "24:00"`

	endAfterStartTag  = "endafterstart"
	endAfterStartText = "end time must be after start time"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
		return Day(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, weekdayTag, weekdayText)

	_ = validate.RegisterValidation(hhmmTag, func(fl validator.FieldLevel) bool {
		return timeOfDayRegex.MatchString(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, hhmmTag, hhmmText)

	_ = validate.RegisterValidation(hhmmEndTag, func(fl validator.FieldLevel) bool {
		_, err := ParseEndTimeOfDay(fl.Field().String())
		return err == nil
	})
	core.RegisterCustomTranslation(validate, translator, hhmmEndTag, hhmmEndText)

	validate.RegisterStructValidation(entryStructValidation, NewEntry{})
	core.RegisterCustomTranslation(validate, translator, endAfterStartTag, endAfterStartText)
}

// entryStructValidation checks that the entry ends after it starts.
func entryStructValidation(sl validator.StructLevel) {
	ne, ok := sl.Current().Interface().(NewEntry)
	if !ok {
		return
	}
	start, sErr := ParseTimeOfDay(ne.Start)
	end, eErr := ParseEndTimeOfDay(ne.End)
	if sErr != nil || eErr != nil {
		return // `hhmm` and `hhmmend` report it
	}
	if end <= start {
		sl.ReportError(ne.End, "end", "End", endAfterStartTag, "")
	}
}

type NewEntry struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	ClassID   string `json:"class_id" validate:"required,uuid"`
	Day       Day    `json:"day" validate:"required,weekday"`
	Start     string `json:"start" validate:"required,hhmm"`
	End       string `json:"end" validate:"required,hhmmend"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.Day = Day(core.CleanString(string(ne.Day), true /* lower */))
	ne.Start = core.CleanString(ne.Start)
	ne.End = core.CleanString(ne.End)
	return validate.Struct(ne)
}

// entry builds the Entry described by a validated NewEntry.
func (ne NewEntry) entry() Entry {
	return Entry{
		TeacherID: ne.TeacherID,
		SubjectID: ne.SubjectID,
		ClassID:   ne.ClassID,
		Day:       ne.Day,
		Start:     MustParseTimeOfDay(ne.Start),
		End:       MustParseEndTimeOfDay(ne.End),
	}
}

// UpdateEntry defines what may be changed on an Entry; empty fields are left unchanged.
type UpdateEntry struct {
	TeacherID string `json:"teacher_id" validate:"omitempty,uuid"`
	SubjectID string `json:"subject_id" validate:"omitempty,uuid"`
	ClassID   string `json:"class_id" validate:"omitempty,uuid"`
	Day       Day    `json:"day" validate:"omitempty,weekday"`
	Start     string `json:"start" validate:"omitempty,hhmm"`
	End       string `json:"end" validate:"omitempty,hhmmend"`
}

// merge returns the NewEntry resulting from applying ue onto orig, to be validated as a whole.
func (ue UpdateEntry) merge(orig Entry) NewEntry {
	ne := NewEntry{
		TeacherID: orig.TeacherID,
		SubjectID: orig.SubjectID,
		ClassID:   orig.ClassID,
		Day:       orig.Day,
		Start:     orig.Start.String(),
		End:       orig.End.String(),
	}
	if ue.TeacherID != "" {
		ne.TeacherID = ue.TeacherID
	}
	if ue.SubjectID != "" {
		ne.SubjectID = ue.SubjectID
	}
	if ue.ClassID != "" {
		ne.ClassID = ue.ClassID
	}
	if ue.Day != "" {
		ne.Day = ue.Day
	}
	if ue.Start != "" {
		ne.Start = ue.Start
	}
	if ue.End != "" {
		ne.End = ue.End
	}
	return ne
}

// QueryFilter applies AND on its set fields.
type QueryFilter struct {
	TeacherID string `query:"teacher_id"`
	ClassID   string `query:"class_id"`
	SubjectID string `query:"subject_id"`
	Day       Day    `query:"day"`
}
