package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"registrar/internal/domain"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ============================================================================
// Error Classification
// ============================================================================

// uniqueViolation reports whether err is a unique or primary-key
// constraint failure, and if so which column tripped it. SQLite phrases
// both as "UNIQUE constraint failed: table.column".
func uniqueViolation(err error) (column string, ok bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return "", false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
	default:
		return "", false
	}
	msg := se.Error()
	if idx := strings.LastIndex(msg, "."); idx >= 0 {
		return strings.TrimSpace(msg[idx+1:]), true
	}
	return "", true
}

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToInt64Ptr converts sql.NullInt64 to *int64
func nullToInt64Ptr(ni sql.NullInt64) *int64 {
	if ni.Valid {
		v := ni.Int64
		return &v
	}
	return nil
}

// ============================================================================
// Live Search Patterns
// ============================================================================

// likePattern wraps a raw filter in % wildcards, escaping any LIKE
// metacharacters the user typed. Queries using it must specify
// ESCAPE '\'. SQLite LIKE is case-insensitive for ASCII, which is the
// contract for live search.
func likePattern(filter string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(filter)
	return "%" + escaped + "%"
}

// ============================================================================
// Row Scanners
// ============================================================================

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// personColumns is the SELECT column list shared by students and
// instructors, which have the same shape.
const personColumns = `id, name, age, email`

func scanStudent(sc scanner) (*domain.Student, error) {
	var s domain.Student
	if err := sc.Scan(&s.ID, &s.Name, &s.Age, &s.Email); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanInstructor(sc scanner) (*domain.Instructor, error) {
	var in domain.Instructor
	if err := sc.Scan(&in.ID, &in.Name, &in.Age, &in.Email); err != nil {
		return nil, err
	}
	return &in, nil
}

// courseColumns joins the current assignment so a course row carries
// its instructor id. MUST match scanCourse order exactly.
const courseColumns = `c.id, c.name, a.instructor_id`

func scanCourse(sc scanner) (*domain.Course, error) {
	var (
		c          domain.Course
		instructor sql.NullInt64
	)
	if err := sc.Scan(&c.ID, &c.Name, &instructor); err != nil {
		return nil, err
	}
	c.InstructorID = nullToInt64Ptr(instructor)
	return &c, nil
}
