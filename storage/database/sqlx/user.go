package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/user"
)

var userColumns = []string{"id", "username", "role", "password_hash", "created_at", "updated_at"}

type userRepository struct {
	conn
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{conn{db: db}}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = newID()
	q := psql.Insert("users").
		Columns(userColumns...).
		Values(usr.ID, usr.Username, usr.Role, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	q := psql.Select(userColumns...).From("users")
	switch {
	case filter.ID != "":
		if !validID(filter.ID) {
			return user.User{}, user.ErrNotFound
		}
		q = q.Where(sq.Eq{"id": filter.ID})
	case filter.Username != "":
		q = q.Where(sq.Eq{"username": filter.Username})
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	err := repo.get(ctx, &usr, q)
	return usr, notFound(err, user.ErrNotFound)
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := psql.Select(userColumns...).From("users").OrderBy("username")
	if filter.Role != "" {
		q = q.Where(sq.Eq{"role": filter.Role})
	}
	users := make([]user.User, 0)
	err := repo.selekt(ctx, &users, q)
	return users, err
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	if !validID(usr.ID) {
		return user.User{}, user.ErrNotFound
	}
	q := psql.Update("users").
		Set("username", usr.Username).
		Set("role", usr.Role).
		Set("password_hash", usr.PasswordHash).
		Set("updated_at", usr.UpdatedAt).
		Where(sq.Eq{"id": usr.ID})
	if err := repo.execOne(ctx, q, user.ErrNotFound); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id string) error {
	if !validID(id) {
		return user.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("users").Where(sq.Eq{"id": id}), user.ErrNotFound)
}

func (repo *userRepository) CountUserDependents(ctx context.Context, id string) (user.Dependents, error) {
	var deps user.Dependents
	q := countsQuery(id,
		counter{table: "teachers", column: "user_id", alias: "teacher_profiles"},
		counter{table: "students", column: "user_id", alias: "student_profiles"},
	)
	err := repo.get(ctx, &deps, q)
	return deps, dbError(err)
}
