package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/academicyear"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	errStillReferenced    = core.NewDependencyError("record is still referenced by other records")
	errMissingReference   = core.NewPreconditionError("a referenced record does not exist")
	errConcurrentActivate = core.NewConflictError("another academic year was activated at the same time, please retry")
)

// constraintErrors maps the names of the constraints in fs/migrations to the errors they enforce.
var constraintErrors = map[string]error{
	"users_username_key":                   user.ErrUsernameExists,
	"academic_years_period_key":            academicyear.ErrPeriodExists,
	"academic_years_active_idx":            errConcurrentActivate,
	"teachers_user_id_key":                 teacher.ErrProfileExists,
	"students_user_id_key":                 student.ErrProfileExists,
	"subjects_code_key":                    subject.ErrCodeExists,
	"class_members_student_class_year_key": class.ErrAlreadyMember,
	"schedules_class_overlap_excl":         schedule.ErrClassConflict,
	"schedules_teacher_overlap_excl":       schedule.ErrTeacherConflict,
	"grades_key":                           grade.ErrGradeExists,
}

// dbError turns constraint violations into domain errors. Other errors are returned as is.
func dbError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if mapped, ok := constraintErrors[pqErr.Constraint]; ok {
		return mapped
	}
	if pqErr.Code.Name() == "foreign_key_violation" {
		// raised on the referenced side: "update or delete on table ... violates foreign key constraint"
		if strings.HasPrefix(pqErr.Message, "update or delete") {
			return errStillReferenced
		}
		return errMissingReference
	}
	return err
}

// notFound replaces sql.ErrNoRows with errNotFound.
func notFound(err, errNotFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound
	}
	return dbError(err)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() string { return uuid.New().String() }

type txKey struct{}

// Transactor runs functions within a database transaction carried by their context.
type Transactor struct {
	db *sqlx.DB
}

var _ core.Transactor = (*Transactor)(nil) // interface compliance check

func NewTransactor(db *sqlx.DB) core.Transactor {
	return &Transactor{db: db}
}

// WithinTx commits when fn succeeds and rolls back otherwise. Nested calls join the outer transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return dbError(err)
	}
	return dbError(errors.Wrap(tx.Commit(), "committing transaction"))
}

// conn runs queries on the transaction of the context, or on the DB when there is none.
type conn struct {
	db *sqlx.DB
}

func (c conn) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return c.db
}

func (c conn) get(ctx context.Context, dest interface{}, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return sqlx.GetContext(ctx, c.ext(ctx), dest, query, args...)
}

func (c conn) selekt(ctx context.Context, dest interface{}, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return dbError(sqlx.SelectContext(ctx, c.ext(ctx), dest, query, args...))
}

// exec returns the number of affected rows.
func (c conn) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := c.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dbError(err)
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "reading affected rows")
}

// execOne is exec for statements targeting a single row: errNotFound is returned when none was affected.
func (c conn) execOne(ctx context.Context, b sq.Sqlizer, errNotFound error) error {
	n, err := c.exec(ctx, b)
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}

func (c conn) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	var n int
	err := c.get(ctx, &n, b.Column("count(*)"))
	return n, dbError(err)
}

type counter struct {
	table, column, alias string
}

// countsQuery selects, for each counter, the number of rows of its table referencing id.
func countsQuery(id string, counters ...counter) sq.SelectBuilder {
	b := psql.Select()
	for _, c := range counters {
		b = b.Column(sq.Expr(fmt.Sprintf("(SELECT count(*) FROM %s WHERE %s = ?) AS %s", c.table, c.column, c.alias), id))
	}
	return b
}
