package dummydb

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/academicyear"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

type (
	// DB is an in-memory database. Rows are stored without their joined read-only fields,
	// which are filled in on read.
	DB struct {
		sync.RWMutex
		txMu sync.Mutex // one transaction at a time
		tables
	}

	tables struct {
		users    map[string]user.User
		years    map[string]academicyear.AcademicYear
		subjects map[string]subject.Subject
		teachers map[string]teacher.Teacher
		students map[string]student.Student
		classes  map[string]class.Class
		members  map[string]class.Membership
		entries  map[string]schedule.Entry
		records  map[string]attendance.Record
		grades   map[string]grade.Grade
	}
)

func Open() (*DB, error) {
	return &DB{tables: newTables()}, nil
}

func newTables() tables {
	return tables{
		users:    make(map[string]user.User),
		years:    make(map[string]academicyear.AcademicYear),
		subjects: make(map[string]subject.Subject),
		teachers: make(map[string]teacher.Teacher),
		students: make(map[string]student.Student),
		classes:  make(map[string]class.Class),
		members:  make(map[string]class.Membership),
		entries:  make(map[string]schedule.Entry),
		records:  make(map[string]attendance.Record),
		grades:   make(map[string]grade.Grade),
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.years {
		c.years[k] = v
	}
	for k, v := range t.subjects {
		c.subjects[k] = v
	}
	for k, v := range t.teachers {
		c.teachers[k] = v
	}
	for k, v := range t.students {
		c.students[k] = v
	}
	for k, v := range t.classes {
		c.classes[k] = v
	}
	for k, v := range t.members {
		c.members[k] = v
	}
	for k, v := range t.entries {
		c.entries[k] = v
	}
	for k, v := range t.records {
		c.records[k] = v
	}
	for k, v := range t.grades {
		c.grades[k] = v
	}
	return c
}

// Flush empties every table.
func (db *DB) Flush() {
	db.Lock()
	defer db.Unlock()
	db.tables = newTables()
}

func newID() string { return uuid.New().String() }

type txKey struct{}

type transactor struct {
	db *DB
}

var _ core.Transactor = (*transactor)(nil) // interface compliance check

func NewTransactor(db *DB) core.Transactor {
	return &transactor{db: db}
}

// WithinTx rolls every table back to its state before fn when fn fails. Writes made outside
// the transaction while fn runs are rolled back too; tests must not make any. Nested calls join the outer one.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()

	t.db.RLock()
	snapshot := t.db.tables.clone()
	t.db.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.db.Lock()
		t.db.tables = snapshot
		t.db.Unlock()
		return err
	}
	return nil
}
