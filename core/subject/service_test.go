package subject_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/tests"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	env.CreateSubject(t, "MTK", "Mathematics")

	tests := []struct {
		name     string
		data     subject.NewSubject
		wantKind core.ErrorKind
	}{
		{"duplicate code", subject.NewSubject{Code: "MTK", Name: "Maths again"}, core.KindConflict},
		{"missing name", subject.NewSubject{Code: "BIO"}, core.KindInvalid},
		{"blank name", subject.NewSubject{Code: "BIO", Name: "   "}, core.KindInvalid},
		{"bad code", subject.NewSubject{Code: "B I O", Name: "Biology"}, core.KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Subjects.Create(ctx, tt.data)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, core.KindOf(err))
		})
	}

	subjects, err := env.Subjects.Query(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
}

func TestService_Delete(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	c := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)
	s := env.CreateStudent(t, "", "Budi")
	sub := env.CreateSubject(t, "MTK", "Mathematics")
	e := env.CreateEntry(t, tchr.ID, sub.ID, c.ID, schedule.Monday, "07:00", "08:00")

	err := env.Subjects.Delete(ctx, sub.ID)
	assert.True(t, errors.Is(err, subject.ErrHasSchedules), "got %v", err)
	_, err = env.Subjects.GetByID(ctx, sub.ID)
	require.NoError(t, err, "a blocked delete changes nothing")

	require.NoError(t, env.Schedules.Delete(ctx, e.ID))
	_, err = env.Grades.Create(ctx, grade.NewGrade{
		StudentID:      s.ID,
		SubjectID:      sub.ID,
		TeacherID:      tchr.ID,
		AcademicYearID: year.ID,
		Semester:       grade.SemesterOdd,
		Type:           grade.TypeQuiz,
		Score:          testutil.Score(80),
	})
	require.NoError(t, err)

	err = env.Subjects.Delete(ctx, sub.ID)
	assert.True(t, errors.Is(err, subject.ErrHasGrades), "got %v", err)
	assert.Equal(t, core.KindDependency, core.KindOf(err))
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	mtk := env.CreateSubject(t, "MTK", "Mathematics")
	env.CreateSubject(t, "BIO", "Biology")

	_, err := env.Subjects.Update(ctx, mtk.ID, subject.UpdateSubject{Code: "BIO"})
	assert.True(t, errors.Is(err, subject.ErrCodeExists), "got %v", err)

	sub, err := env.Subjects.Update(ctx, mtk.ID, subject.UpdateSubject{Name: "Maths"})
	require.NoError(t, err)
	assert.Equal(t, "Maths", sub.Name)
	assert.Equal(t, "MTK", sub.Code)

	byCode, err := env.Subjects.GetByCode(ctx, "MTK")
	require.NoError(t, err)
	assert.Equal(t, mtk.ID, byCode.ID)
}
