package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"registrar/internal/domain"
)

// Repository implements repository.Repository using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database file and ensures the schema
// exists. The operation is idempotent; reopening an existing database
// leaves it untouched. Use ":memory:" for an ephemeral store.
func Open(path string) (*Repository, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &domain.StorageUnavailableError{Path: path, Err: err}
	}

	// Single active writer; also keeps :memory: databases pinned to
	// one connection so the pool never opens a second, empty copy.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, path: path}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, &domain.StorageUnavailableError{Path: path, Err: err}
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER NOT NULL CHECK (age > 0),
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS instructors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER NOT NULL CHECK (age > 0),
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS courses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS enrollments (
		student_id INTEGER NOT NULL,
		course_id INTEGER NOT NULL,
		PRIMARY KEY (student_id, course_id),
		FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE,
		FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS assignments (
		course_id INTEGER PRIMARY KEY,
		instructor_id INTEGER NOT NULL,
		FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE,
		FOREIGN KEY (instructor_id) REFERENCES instructors(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollments(course_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_instructor ON assignments(instructor_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// withTx runs fn inside a transaction, rolling back on any error so
// multi-statement mutations commit all-or-nothing.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rowExists reports whether a row with the given id exists in table.
// The table name is always one of our own constants, never user input.
func rowExists(ctx context.Context, tx *sql.Tx, table string, id int64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query %s: %w", table, err)
	}
	return true, nil
}

// ============================================================================
// Students
// ============================================================================

// GetStudent retrieves a single student by id.
func (r *Repository) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM students WHERE id = ?`, id)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "student", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query student: %w", err)
	}
	return s, nil
}

// ListStudents returns students whose name or email contains filter
// (case-insensitive), ordered by id. An empty filter returns all rows.
func (r *Repository) ListStudents(ctx context.Context, filter string) ([]domain.Student, error) {
	query := `SELECT ` + personColumns + ` FROM students ORDER BY id`
	args := []any{}
	if filter != "" {
		pattern := likePattern(filter)
		query = `SELECT ` + personColumns + ` FROM students
			WHERE name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' ORDER BY id`
		args = []any{pattern, pattern}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// InsertStudent persists a new student. A non-zero ID is honored
// (import path); a zero ID lets the store allocate the next one.
func (r *Repository) InsertStudent(ctx context.Context, s *domain.Student) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if s.ID > 0 {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO students (id, name, age, email) VALUES (?, ?, ?, ?)`,
			s.ID, s.Name, s.Age, s.Email)
	} else {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO students (name, age, email) VALUES (?, ?, ?)`,
			s.Name, s.Age, s.Email)
	}
	if err != nil {
		if col, ok := uniqueViolation(err); ok {
			return 0, duplicateKey("student", col, s.ID, s.Email)
		}
		return 0, fmt.Errorf("insert student: %w", err)
	}
	if s.ID > 0 {
		return s.ID, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert student id: %w", err)
	}
	return id, nil
}

// UpdateStudent replaces the mutable fields of an existing student.
func (r *Repository) UpdateStudent(ctx context.Context, s *domain.Student) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET name = ?, age = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		s.Name, s.Age, s.Email, s.ID)
	if err != nil {
		if col, ok := uniqueViolation(err); ok {
			return duplicateKey("student", col, s.ID, s.Email)
		}
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res, &domain.NotFoundError{Entity: "student", ID: s.ID})
}

// DeleteStudent removes a student; its enrollments go with it via
// cascade.
func (r *Repository) DeleteStudent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireAffected(res, &domain.NotFoundError{Entity: "student", ID: id})
}

// ============================================================================
// Instructors
// ============================================================================

// GetInstructor retrieves a single instructor by id.
func (r *Repository) GetInstructor(ctx context.Context, id int64) (*domain.Instructor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM instructors WHERE id = ?`, id)
	in, err := scanInstructor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "instructor", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query instructor: %w", err)
	}
	return in, nil
}

// ListInstructors returns instructors matching filter by name or email,
// ordered by id.
func (r *Repository) ListInstructors(ctx context.Context, filter string) ([]domain.Instructor, error) {
	query := `SELECT ` + personColumns + ` FROM instructors ORDER BY id`
	args := []any{}
	if filter != "" {
		pattern := likePattern(filter)
		query = `SELECT ` + personColumns + ` FROM instructors
			WHERE name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' ORDER BY id`
		args = []any{pattern, pattern}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query instructors: %w", err)
	}
	defer rows.Close()

	instructors := []domain.Instructor{}
	for rows.Next() {
		in, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan instructor: %w", err)
		}
		instructors = append(instructors, *in)
	}
	return instructors, rows.Err()
}

// InsertInstructor persists a new instructor.
func (r *Repository) InsertInstructor(ctx context.Context, in *domain.Instructor) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if in.ID > 0 {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO instructors (id, name, age, email) VALUES (?, ?, ?, ?)`,
			in.ID, in.Name, in.Age, in.Email)
	} else {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO instructors (name, age, email) VALUES (?, ?, ?)`,
			in.Name, in.Age, in.Email)
	}
	if err != nil {
		if col, ok := uniqueViolation(err); ok {
			return 0, duplicateKey("instructor", col, in.ID, in.Email)
		}
		return 0, fmt.Errorf("insert instructor: %w", err)
	}
	if in.ID > 0 {
		return in.ID, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert instructor id: %w", err)
	}
	return id, nil
}

// UpdateInstructor replaces the mutable fields of an existing
// instructor.
func (r *Repository) UpdateInstructor(ctx context.Context, in *domain.Instructor) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE instructors SET name = ?, age = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.Name, in.Age, in.Email, in.ID)
	if err != nil {
		if col, ok := uniqueViolation(err); ok {
			return duplicateKey("instructor", col, in.ID, in.Email)
		}
		return fmt.Errorf("update instructor: %w", err)
	}
	return requireAffected(res, &domain.NotFoundError{Entity: "instructor", ID: in.ID})
}

// DeleteInstructor removes an instructor. Its course assignments are
// cascaded away, which leaves the courses themselves in place but
// unassigned.
func (r *Repository) DeleteInstructor(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM instructors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete instructor: %w", err)
	}
	return requireAffected(res, &domain.NotFoundError{Entity: "instructor", ID: id})
}

// ============================================================================
// Courses
// ============================================================================

const courseSelect = `SELECT ` + courseColumns + ` FROM courses c
	LEFT JOIN assignments a ON a.course_id = c.id`

// GetCourse retrieves a single course, including its current
// instructor assignment if any.
func (r *Repository) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx, courseSelect+` WHERE c.id = ?`, id)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "course", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query course: %w", err)
	}
	return c, nil
}

// ListCourses returns courses whose name contains filter, ordered by
// id. Courses have no email, so only the name is searched.
func (r *Repository) ListCourses(ctx context.Context, filter string) ([]domain.Course, error) {
	query := courseSelect + ` ORDER BY c.id`
	args := []any{}
	if filter != "" {
		query = courseSelect + ` WHERE c.name LIKE ? ESCAPE '\' ORDER BY c.id`
		args = []any{likePattern(filter)}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// InsertCourse persists a new course, and its instructor assignment in
// the same transaction when one is given.
func (r *Repository) InsertCourse(ctx context.Context, c *domain.Course) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var (
			res sql.Result
			err error
		)
		if c.ID > 0 {
			res, err = tx.ExecContext(ctx, `INSERT INTO courses (id, name) VALUES (?, ?)`, c.ID, c.Name)
		} else {
			res, err = tx.ExecContext(ctx, `INSERT INTO courses (name) VALUES (?)`, c.Name)
		}
		if err != nil {
			if _, ok := uniqueViolation(err); ok {
				return &domain.DuplicateKeyError{Entity: "course", Field: "id", Value: strconv.FormatInt(c.ID, 10)}
			}
			return fmt.Errorf("insert course: %w", err)
		}
		if c.ID > 0 {
			id = c.ID
		} else if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert course id: %w", err)
		}

		if c.InstructorID != nil {
			return assignInstructorTx(ctx, tx, id, *c.InstructorID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateCourse replaces the course name and syncs its assignment to
// InstructorID: a nil pointer clears any existing assignment.
func (r *Repository) UpdateCourse(ctx context.Context, c *domain.Course) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE courses SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			c.Name, c.ID)
		if err != nil {
			return fmt.Errorf("update course: %w", err)
		}
		if err := requireAffected(res, &domain.NotFoundError{Entity: "course", ID: c.ID}); err != nil {
			return err
		}

		if c.InstructorID == nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE course_id = ?`, c.ID); err != nil {
				return fmt.Errorf("clear assignment: %w", err)
			}
			return nil
		}
		return assignInstructorTx(ctx, tx, c.ID, *c.InstructorID)
	})
}

// DeleteCourse removes a course; its enrollments and assignment are
// cascaded away.
func (r *Repository) DeleteCourse(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(res, &domain.NotFoundError{Entity: "course", ID: id})
}

// ============================================================================
// Associations
// ============================================================================

// Enroll records a (student, course) pair.
func (r *Repository) Enroll(ctx context.Context, studentID, courseID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "students", "student", studentID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, "courses", "course", courseID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO enrollments (student_id, course_id) VALUES (?, ?)`,
			studentID, courseID)
		if err != nil {
			if _, ok := uniqueViolation(err); ok {
				return &domain.AlreadyEnrolledError{StudentID: studentID, CourseID: courseID}
			}
			return fmt.Errorf("insert enrollment: %w", err)
		}
		return nil
	})
}

// Unenroll removes a (student, course) pair.
func (r *Repository) Unenroll(ctx context.Context, studentID, courseID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "students", "student", studentID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, "courses", "course", courseID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM enrollments WHERE student_id = ? AND course_id = ?`,
			studentID, courseID)
		if err != nil {
			return fmt.Errorf("delete enrollment: %w", err)
		}
		return requireAffected(res, &domain.NotFoundError{
			Entity: fmt.Sprintf("enrollment of student %d in course %d", studentID, courseID),
		})
	})
}

// AssignInstructor sets the instructor for a course, replacing any
// prior assignment. Replacement is not an error.
func (r *Repository) AssignInstructor(ctx context.Context, courseID, instructorID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "courses", "course", courseID); err != nil {
			return err
		}
		return assignInstructorTx(ctx, tx, courseID, instructorID)
	})
}

func assignInstructorTx(ctx context.Context, tx *sql.Tx, courseID, instructorID int64) error {
	if err := requireRow(ctx, tx, "instructors", "instructor", instructorID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO assignments (course_id, instructor_id) VALUES (?, ?)
		ON CONFLICT(course_id) DO UPDATE SET instructor_id = excluded.instructor_id
	`, courseID, instructorID)
	if err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	return nil
}

// ============================================================================
// Relation Views
// ============================================================================

// ListStudentCourses returns the courses the student is enrolled in,
// ordered by id. The existence check and the join run in one
// transaction so the view is consistent.
func (r *Repository) ListStudentCourses(ctx context.Context, studentID int64) ([]domain.Course, error) {
	courses := []domain.Course{}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "students", "student", studentID); err != nil {
			return err
		}
		rows, err := tx.QueryContext(ctx, courseSelect+`
			JOIN enrollments e ON e.course_id = c.id
			WHERE e.student_id = ? ORDER BY c.id`, studentID)
		if err != nil {
			return fmt.Errorf("query student courses: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCourse(rows)
			if err != nil {
				return fmt.Errorf("scan course: %w", err)
			}
			courses = append(courses, *c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// ListInstructorCourses returns the courses currently assigned to the
// instructor, ordered by id.
func (r *Repository) ListInstructorCourses(ctx context.Context, instructorID int64) ([]domain.Course, error) {
	courses := []domain.Course{}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "instructors", "instructor", instructorID); err != nil {
			return err
		}
		rows, err := tx.QueryContext(ctx, courseSelect+`
			WHERE a.instructor_id = ? ORDER BY c.id`, instructorID)
		if err != nil {
			return fmt.Errorf("query instructor courses: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCourse(rows)
			if err != nil {
				return fmt.Errorf("scan course: %w", err)
			}
			courses = append(courses, *c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// ListCourseStudents returns the roster of a course, ordered by id.
func (r *Repository) ListCourseStudents(ctx context.Context, courseID int64) ([]domain.Student, error) {
	students := []domain.Student{}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "courses", "course", courseID); err != nil {
			return err
		}
		rows, err := tx.QueryContext(ctx, `
			SELECT s.id, s.name, s.age, s.email FROM students s
			JOIN enrollments e ON e.student_id = s.id
			WHERE e.course_id = ? ORDER BY s.id`, courseID)
		if err != nil {
			return fmt.Errorf("query course students: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanStudent(rows)
			if err != nil {
				return fmt.Errorf("scan student: %w", err)
			}
			students = append(students, *s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return students, nil
}

// requireRow returns NotFound for entity when the id has no row.
func requireRow(ctx context.Context, tx *sql.Tx, table, entity string, id int64) error {
	ok, err := rowExists(ctx, tx, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

// ============================================================================
// Snapshot
// ============================================================================

// Snapshot reads all five relations in one transaction so export sees
// a consistent view.
func (r *Repository) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot()
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if snap.Students, err = listStudentsTx(ctx, tx); err != nil {
			return err
		}
		if snap.Instructors, err = listInstructorsTx(ctx, tx); err != nil {
			return err
		}
		if snap.Courses, err = listCoursesTx(ctx, tx); err != nil {
			return err
		}
		if snap.Enrollments, err = listEnrollmentsTx(ctx, tx); err != nil {
			return err
		}
		snap.Assignments, err = listAssignmentsTx(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func listStudentsTx(ctx context.Context, tx *sql.Tx) ([]domain.Student, error) {
	rows, err := tx.QueryContext(ctx, `SELECT `+personColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

func listInstructorsTx(ctx context.Context, tx *sql.Tx) ([]domain.Instructor, error) {
	rows, err := tx.QueryContext(ctx, `SELECT `+personColumns+` FROM instructors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query instructors: %w", err)
	}
	defer rows.Close()

	instructors := []domain.Instructor{}
	for rows.Next() {
		in, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan instructor: %w", err)
		}
		instructors = append(instructors, *in)
	}
	return instructors, rows.Err()
}

func listCoursesTx(ctx context.Context, tx *sql.Tx) ([]domain.Course, error) {
	rows, err := tx.QueryContext(ctx, courseSelect+` ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func listEnrollmentsTx(ctx context.Context, tx *sql.Tx) ([]domain.Enrollment, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT student_id, course_id FROM enrollments ORDER BY student_id, course_id`)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []domain.Enrollment{}
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.StudentID, &e.CourseID); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func listAssignmentsTx(ctx context.Context, tx *sql.Tx) ([]domain.Assignment, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT course_id, instructor_id FROM assignments ORDER BY course_id`)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []domain.Assignment{}
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.CourseID, &a.InstructorID); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// ============================================================================
// Housekeeping
// ============================================================================

// requireAffected converts a zero-row mutation into notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// duplicateKey builds the DuplicateKey error for a person insert or
// update, picking the offending value by column.
func duplicateKey(entity, column string, id int64, email string) error {
	value := email
	if column != "email" {
		column = "id"
		value = strconv.FormatInt(id, 10)
	}
	return &domain.DuplicateKeyError{Entity: entity, Field: column, Value: value}
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}
