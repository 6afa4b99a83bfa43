package grade

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/academicyear"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/teacher"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("grade not found")
	ErrGradeExists = core.NewConflictError("a grade already exists for this student, subject, semester, grade type and academic year")
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		GetGrade(ctx context.Context, id string) (Grade, error)
		FindGrade(ctx context.Context, key Key) (Grade, error)
		QueryGrades(ctx context.Context, filter QueryFilter) ([]Grade, error)
		UpdateGrade(ctx context.Context, g Grade) (Grade, error)
		DeleteGrade(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		students student.Repository
		subjects subject.Repository
		teachers teacher.Repository
		years    academicyear.Repository
		tx       core.Transactor
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	students student.Repository,
	subjects subject.Repository,
	teachers teacher.Repository,
	years academicyear.Repository,
	tx core.Transactor,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		students: students,
		subjects: subjects,
		teachers: teachers,
		years:    years,
		tx:       tx,
		validate: validate,
		logger:   logger,
	}
}

// resolve checks that everything g references exists and fills their names in.
func (svc *Service) resolve(ctx context.Context, g *Grade) error {
	s, err := svc.students.GetStudent(ctx, student.GetFilter{ID: g.StudentID})
	if err != nil {
		return err
	}
	sub, err := svc.subjects.GetSubject(ctx, subject.GetFilter{ID: g.SubjectID})
	if err != nil {
		return err
	}
	t, err := svc.teachers.GetTeacher(ctx, teacher.GetFilter{ID: g.TeacherID})
	if err != nil {
		return err
	}
	year, err := svc.years.GetYear(ctx, academicyear.GetFilter{ID: g.AcademicYearID})
	if err != nil {
		return err
	}
	g.StudentName = s.Name
	g.SubjectName = sub.Name
	g.TeacherName = t.Name
	g.Period = year.Period
	return nil
}

// Create records a Grade; only one Grade may exist per Key.
func (svc *Service) Create(ctx context.Context, ng NewGrade) (Grade, error) {
	if err := ng.Validate(svc.validate); err != nil {
		return Grade{}, err
	}

	now := time.Now().UTC()
	g := Grade{
		StudentID:      ng.StudentID,
		SubjectID:      ng.SubjectID,
		TeacherID:      ng.TeacherID,
		AcademicYearID: ng.AcademicYearID,
		Semester:       ng.Semester,
		Type:           ng.Type,
		Score:          *ng.Score,
		InputAt:        now,
		UpdatedAt:      now,
	}
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.resolve(ctx, &g); err != nil {
			return err
		}
		_, err := svc.repo.FindGrade(ctx, g.Key())
		switch {
		case err == nil:
			return ErrGradeExists
		case !errors.Is(err, ErrNotFound):
			return errors.Wrap(err, "checking grade uniqueness")
		}
		g, err = svc.repo.CreateGrade(ctx, g)
		return err
	})
	if err != nil {
		return Grade{}, core.Catch(svc.logger, err, "creating grade")
	}
	return g, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Grade, error) {
	grades, err := svc.repo.QueryGrades(ctx, filter)
	return grades, core.Catch(svc.logger, err, "querying grades")
}

// QueryClass returns the grades of a class's members for a subject, semester and academic year.
func (svc *Service) QueryClass(ctx context.Context, classID, subjectID string, semester Semester, yearID string) ([]Grade, error) {
	filter := QueryFilter{ClassID: classID, SubjectID: subjectID, Semester: semester, AcademicYearID: yearID}
	grades, err := svc.repo.QueryGrades(ctx, filter)
	return grades, core.Catch(svc.logger, err, "querying class grades")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Grade, error) {
	g, err := svc.repo.GetGrade(ctx, id)
	return g, core.Catch(svc.logger, err, "getting grade by ID")
}

// Update changes the score of a Grade; nothing else about it may change.
func (svc *Service) Update(ctx context.Context, id string, ug UpdateGrade) (Grade, error) {
	if err := ug.Validate(svc.validate); err != nil {
		return Grade{}, err
	}

	var g Grade
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if g, err = svc.repo.GetGrade(ctx, id); err != nil {
			return err
		}
		g.Score = *ug.Score
		g.UpdatedAt = time.Now().UTC()
		g, err = svc.repo.UpdateGrade(ctx, g)
		return err
	})
	if err != nil {
		return Grade{}, core.Catch(svc.logger, err, "updating grade")
	}
	return g, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetGrade(ctx, id); err != nil {
			return err
		}
		return svc.repo.DeleteGrade(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting grade")
}
