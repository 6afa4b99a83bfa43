package class

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/academicyear"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("class not found")
	ErrMembershipNotFound = core.NewNotFoundError("class member not found")
	ErrAlreadyMember      = core.NewConflictError("student is already a member of this class for this academic year")
	ErrYearMismatch       = core.NewPreconditionError("class does not belong to this academic year")
	ErrHasMembers         = core.NewDependencyError("class still has members, remove them first")
	ErrHasSchedules       = core.NewDependencyError("class still has schedules, delete them first")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, c Class) (Class, error)
		GetClass(ctx context.Context, id string) (Class, error)
		// QueryClasses returns Classes ordered by level then name.
		QueryClasses(ctx context.Context, filter QueryFilter) ([]Class, error)
		CountClasses(ctx context.Context) (int, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		DeleteClass(ctx context.Context, id string) error
		CountClassDependents(ctx context.Context, id string) (Dependents, error)

		CreateMembership(ctx context.Context, m Membership) (Membership, error)
		GetMembership(ctx context.Context, id string) (Membership, error)
		// FindMembership returns the Membership of the (student, class, year) triple.
		FindMembership(ctx context.Context, studentID, classID, yearID string) (Membership, error)
		// QueryMemberships returns Memberships ordered by student name.
		QueryMemberships(ctx context.Context, filter MembershipFilter) ([]Membership, error)
		DeleteMembership(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		teachers teacher.Repository
		years    academicyear.Repository
		students student.Repository
		tx       core.Transactor
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	teachers teacher.Repository,
	years academicyear.Repository,
	students student.Repository,
	tx core.Transactor,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		teachers: teachers,
		years:    years,
		students: students,
		tx:       tx,
		validate: validate,
		logger:   logger,
	}
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Class{}, err
	}

	now := time.Now().UTC()
	c := Class{
		Name:              nc.Name,
		Level:             nc.Level,
		HomeroomTeacherID: nc.HomeroomTeacherID,
		AcademicYearID:    nc.AcademicYearID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		homeroom, err := svc.teachers.GetTeacher(ctx, teacher.GetFilter{ID: c.HomeroomTeacherID})
		if err != nil {
			return err
		}
		year, err := svc.years.GetYear(ctx, academicyear.GetFilter{ID: c.AcademicYearID})
		if err != nil {
			return err
		}
		if c, err = svc.repo.CreateClass(ctx, c); err != nil {
			return err
		}
		c.HomeroomTeacherName = homeroom.Name
		c.Period = year.Period
		return nil
	})
	if err != nil {
		return Class{}, core.Catch(svc.logger, err, "creating class")
	}
	return c, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Class, error) {
	classes, err := svc.repo.QueryClasses(ctx, filter)
	return classes, core.Catch(svc.logger, err, "querying classes")
}

// QueryActive returns the Classes of the active AcademicYear, optionally of one level only.
// There are none when no year is active.
func (svc *Service) QueryActive(ctx context.Context, level int) ([]Class, error) {
	year, err := svc.years.GetYear(ctx, academicyear.GetFilter{Active: true})
	if err != nil {
		if errors.Is(err, academicyear.ErrNotFound) {
			return []Class{}, nil
		}
		return nil, core.Catch(svc.logger, err, "getting active academic year")
	}
	classes, err := svc.repo.QueryClasses(ctx, QueryFilter{AcademicYearID: year.ID, Level: level})
	return classes, core.Catch(svc.logger, err, "querying active classes")
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	n, err := svc.repo.CountClasses(ctx)
	return n, core.Catch(svc.logger, err, "counting classes")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Class, error) {
	c, err := svc.repo.GetClass(ctx, id)
	return c, core.Catch(svc.logger, err, "getting class by ID")
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateClass) (Class, error) {
	if err := uc.Validate(svc.validate); err != nil {
		return Class{}, err
	}

	var c Class
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if c, err = svc.repo.GetClass(ctx, id); err != nil {
			return err
		}
		if uc.Name != "" {
			c.Name = uc.Name
		}
		if uc.Level != 0 {
			c.Level = uc.Level
		}
		if uc.HomeroomTeacherID != "" && uc.HomeroomTeacherID != c.HomeroomTeacherID {
			homeroom, err := svc.teachers.GetTeacher(ctx, teacher.GetFilter{ID: uc.HomeroomTeacherID})
			if err != nil {
				return err
			}
			c.HomeroomTeacherID = homeroom.ID
			c.HomeroomTeacherName = homeroom.Name
		}
		c.UpdatedAt = time.Now().UTC()
		c, err = svc.repo.UpdateClass(ctx, c)
		return err
	})
	if err != nil {
		return Class{}, core.Catch(svc.logger, err, "updating class")
	}
	return c, nil
}

// Delete removes a Class with no members and no schedules.
func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetClass(ctx, id); err != nil {
			return err
		}
		deps, err := svc.repo.CountClassDependents(ctx, id)
		if err != nil {
			return errors.Wrap(err, "counting class dependents")
		}
		if err = deps.Blocking(); err != nil {
			return err
		}
		return svc.repo.DeleteClass(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting class")
}

// Memberships

func (svc *Service) QueryMembers(ctx context.Context, filter MembershipFilter) ([]Membership, error) {
	members, err := svc.repo.QueryMemberships(ctx, filter)
	return members, core.Catch(svc.logger, err, "querying class members")
}

// AddMember puts a Student in a Class; a (student, class, year) triple is only stored once.
func (svc *Service) AddMember(ctx context.Context, nm NewMembership) (Membership, error) {
	if err := nm.Validate(svc.validate); err != nil {
		return Membership{}, err
	}

	m := Membership{
		StudentID:      nm.StudentID,
		ClassID:        nm.ClassID,
		AcademicYearID: nm.AcademicYearID,
		CreatedAt:      time.Now().UTC(),
	}
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := svc.students.GetStudent(ctx, student.GetFilter{ID: m.StudentID})
		if err != nil {
			return err
		}
		c, err := svc.repo.GetClass(ctx, m.ClassID)
		if err != nil {
			return err
		}
		year, err := svc.years.GetYear(ctx, academicyear.GetFilter{ID: m.AcademicYearID})
		if err != nil {
			return err
		}
		if c.AcademicYearID != year.ID {
			return ErrYearMismatch
		}

		_, err = svc.repo.FindMembership(ctx, m.StudentID, m.ClassID, m.AcademicYearID)
		switch {
		case err == nil:
			return ErrAlreadyMember
		case !errors.Is(err, ErrMembershipNotFound):
			return errors.Wrap(err, "checking membership uniqueness")
		}

		if m, err = svc.repo.CreateMembership(ctx, m); err != nil {
			return err
		}
		m.StudentName = s.Name
		m.ClassName = c.Name
		m.Period = year.Period
		return nil
	})
	if err != nil {
		return Membership{}, core.Catch(svc.logger, err, "adding class member")
	}
	return m, nil
}

func (svc *Service) RemoveMember(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetMembership(ctx, id); err != nil {
			return err
		}
		return svc.repo.DeleteMembership(ctx, id)
	})
	return core.Catch(svc.logger, err, "removing class member")
}

// IsMember reports whether the Student belongs to the Class, whatever the year.
func (svc *Service) IsMember(ctx context.Context, studentID, classID string) (bool, error) {
	members, err := svc.repo.QueryMemberships(ctx, MembershipFilter{StudentID: studentID, ClassID: classID})
	if err != nil {
		return false, core.Catch(svc.logger, err, "checking class membership")
	}
	return len(members) > 0, nil
}
