package grade_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/tests"
)

func TestService(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	c7a := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)
	budi := env.CreateStudent(t, "", "Budi")
	ani := env.CreateStudent(t, "", "Ani")
	outsider := env.CreateStudent(t, "", "Outsider")
	env.AddMember(t, budi.ID, c7a.ID, year.ID)
	env.AddMember(t, ani.ID, c7a.ID, year.ID)
	mtk := env.CreateSubject(t, "MTK", "Mathematics")

	newGrade := func(studentID string, typ grade.Type, score float64) grade.NewGrade {
		return grade.NewGrade{
			StudentID:      studentID,
			SubjectID:      mtk.ID,
			TeacherID:      tchr.ID,
			AcademicYearID: year.ID,
			Semester:       grade.SemesterOdd,
			Type:           typ,
			Score:          testutil.Score(score),
		}
	}

	first, err := env.Grades.Create(ctx, newGrade(budi.ID, grade.TypeMidterm, 75))
	require.NoError(t, err)
	assert.Equal(t, "Budi", first.StudentName)
	assert.Equal(t, "Mathematics", first.SubjectName)
	assert.Equal(t, "T1", first.TeacherName)
	assert.Equal(t, "2024/2025", first.Period)

	t.Run("duplicate key", func(t *testing.T) {
		_, err := env.Grades.Create(ctx, newGrade(budi.ID, grade.TypeMidterm, 90))
		assert.True(t, errors.Is(err, grade.ErrGradeExists), "got %v", err)
		assert.Equal(t, core.KindConflict, core.KindOf(err))

		got, err := env.Grades.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 75.0, got.Score, "the existing grade is left unchanged")
	})

	t.Run("invalid input", func(t *testing.T) {
		for name, ng := range map[string]grade.NewGrade{
			"score too high": newGrade(ani.ID, grade.TypeQuiz, 101),
			"negative score": newGrade(ani.ID, grade.TypeQuiz, -1),
			"unknown type":   newGrade(ani.ID, "exam", 50),
		} {
			_, err := env.Grades.Create(ctx, ng)
			assert.Equal(t, core.KindInvalid, core.KindOf(err), name)
		}
		ng := newGrade(ani.ID, grade.TypeQuiz, 50)
		ng.Score = nil
		_, err := env.Grades.Create(ctx, ng)
		assert.Equal(t, core.KindInvalid, core.KindOf(err), "missing score")
	})

	t.Run("zero is a score", func(t *testing.T) {
		g, err := env.Grades.Create(ctx, newGrade(ani.ID, grade.TypeFinal, 0))
		require.NoError(t, err)
		assert.Equal(t, 0.0, g.Score)
	})

	t.Run("class view", func(t *testing.T) {
		_, err := env.Grades.Create(ctx, newGrade(ani.ID, grade.TypeQuiz, 88))
		require.NoError(t, err)
		_, err = env.Grades.Create(ctx, newGrade(outsider.ID, grade.TypeQuiz, 60))
		require.NoError(t, err)

		grades, err := env.Grades.QueryClass(ctx, c7a.ID, mtk.ID, grade.SemesterOdd, year.ID)
		require.NoError(t, err)
		var got []string
		for _, g := range grades {
			got = append(got, string(g.Type)+":"+g.StudentName)
		}
		assert.Equal(t, []string{"quiz:Ani", "midterm:Budi", "final:Ani"}, got)
	})

	t.Run("update score", func(t *testing.T) {
		g, err := env.Grades.Update(ctx, first.ID, grade.UpdateGrade{Score: testutil.Score(82.5)})
		require.NoError(t, err)
		assert.Equal(t, 82.5, g.Score)
		assert.Equal(t, grade.TypeMidterm, g.Type)

		_, err = env.Grades.Update(ctx, first.ID, grade.UpdateGrade{Score: testutil.Score(200)})
		assert.Equal(t, core.KindInvalid, core.KindOf(err))
	})

	t.Run("query by student", func(t *testing.T) {
		grades, err := env.Grades.Query(ctx, grade.QueryFilter{StudentID: budi.ID})
		require.NoError(t, err)
		require.Len(t, grades, 1)
		assert.Equal(t, first.ID, grades[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, env.Grades.Delete(ctx, first.ID))
		_, err := env.Grades.GetByID(ctx, first.ID)
		assert.True(t, errors.Is(err, grade.ErrNotFound))
	})
}
