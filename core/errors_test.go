package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type logged struct {
	msgs []string
}

func (l *logged) Debug(msg string, _ ...interface{}) {}
func (l *logged) Info(msg string, _ ...interface{})  {}
func (l *logged) Warn(msg string, _ ...interface{})  {}
func (l *logged) Error(msg string, _ ...interface{}) { l.msgs = append(l.msgs, msg) }
func (l *logged) Fatal(msg string, _ ...interface{}) {}

func TestCatch(t *testing.T) {
	notFound := NewNotFoundError("thing not found")

	tests := []struct {
		name       string
		err        error
		want       error
		wantLogged bool
	}{
		{name: "nil", err: nil, want: nil},
		{name: "domain error", err: notFound, want: notFound},
		{name: "wrapped domain error", err: errors.Wrap(notFound, "getting thing"), want: notFound},
		{name: "unexpected error", err: errors.New("connection reset"), want: ErrUnexpected, wantLogged: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := new(logged)
			got := Catch(logger, tt.err, "doing thing")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLogged, len(logger.msgs) == 1)
		})
	}

	shutdown := NewShutdownError("db gone")
	assert.True(t, IsShutdown(Catch(nil, shutdown, "doing thing")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NewNotFoundError("x")))
	assert.Equal(t, KindConflict, KindOf(errors.Wrap(NewConflictError("x"), "wrapped")))
	assert.Equal(t, KindPrecondition, KindOf(NewPreconditionError("x")))
	assert.Equal(t, KindDependency, KindOf(NewDependencyError("x")))
	assert.Equal(t, KindInvalid, KindOf(NewInvalidError("x")))
	assert.Equal(t, KindInvalid, KindOf(NewValidationError(nil, FieldError{Field: "f", Error: "bad"})))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("boom")))
	assert.Equal(t, "dependency_blocked", KindDependency.String())
}

func TestNewResult(t *testing.T) {
	assert.Equal(t, Result{Success: true, Data: 42}, NewResult(42, nil, nil))

	res := NewResult(nil, NewDependencyError("still in use"), nil)
	assert.Equal(t, Result{Error: "still in use"}, res)

	res = NewResult(nil, errors.New("pq: relation does not exist"), nil)
	assert.Equal(t, Result{Error: ErrUnexpected.Message}, res, "unexpected errors never leak")

	res = NewResult(nil, NewValidationError(nil, FieldError{Field: "period", Error: "required"}), nil)
	assert.Equal(t, "invalid input", res.Error)
	assert.Equal(t, map[string]string{"period": "required"}, res.Fields)
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 5, Limit(5, 10))
	assert.Equal(t, 10, Limit(0, 10))
	assert.Equal(t, 10, Limit(-1, 10))
	assert.Equal(t, 10, Limit(50, 10))
}
