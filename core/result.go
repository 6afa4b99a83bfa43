package core

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Result is the envelope every operation answers with: {success, data} or {success: false, error}.
type Result struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func OK(data interface{}) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed Result out of err.
// Only domain and validation messages are shown; anything else gets ErrUnexpected's message.
func Fail(err error, translator ut.Translator) Result {
	res := Result{Success: false}

	var vErrs validator.ValidationErrors
	var valErr *ValidationError
	var domainErr *Error
	switch {
	case errors.As(err, &vErrs):
		res.Error = "invalid input"
		res.Fields = make(map[string]string, len(vErrs))
		for _, vErr := range vErrs {
			if translator != nil {
				res.Fields[vErr.Field()] = vErr.Translate(translator)
			} else {
				res.Fields[vErr.Field()] = vErr.Error()
			}
		}
	case errors.As(err, &valErr):
		res.Error = valErr.Error()
		if len(valErr.Fields) > 0 {
			res.Fields = make(map[string]string, len(valErr.Fields))
			for _, fErr := range valErr.Fields {
				res.Fields[fErr.Field] = fErr.Error
			}
		}
	case errors.As(err, &domainErr):
		res.Error = domainErr.Message
	default:
		res.Error = ErrUnexpected.Message
	}
	return res
}

// NewResult is OK(data) when err is nil, Fail(err, translator) otherwise.
func NewResult(data interface{}, err error, translator ut.Translator) Result {
	if err != nil {
		return Fail(err, translator)
	}
	return OK(data)
}
