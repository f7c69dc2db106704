package repository

import (
	"context"

	"registrar/internal/domain"
)

// Repository defines the interface for registrar data access.
//
// Insert methods honor an explicit non-zero ID on the record (used by
// JSON import, which upserts by identifier); with a zero ID the store
// allocates the next one. All mutations are atomic: either every row
// change commits, including cascades, or none does.
type Repository interface {
	// Students
	GetStudent(ctx context.Context, id int64) (*domain.Student, error)
	ListStudents(ctx context.Context, filter string) ([]domain.Student, error)
	InsertStudent(ctx context.Context, s *domain.Student) (int64, error)
	UpdateStudent(ctx context.Context, s *domain.Student) error
	DeleteStudent(ctx context.Context, id int64) error

	// Instructors
	GetInstructor(ctx context.Context, id int64) (*domain.Instructor, error)
	ListInstructors(ctx context.Context, filter string) ([]domain.Instructor, error)
	InsertInstructor(ctx context.Context, in *domain.Instructor) (int64, error)
	UpdateInstructor(ctx context.Context, in *domain.Instructor) error
	DeleteInstructor(ctx context.Context, id int64) error

	// Courses
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)
	ListCourses(ctx context.Context, filter string) ([]domain.Course, error)
	InsertCourse(ctx context.Context, c *domain.Course) (int64, error)
	UpdateCourse(ctx context.Context, c *domain.Course) error
	DeleteCourse(ctx context.Context, id int64) error

	// Associations
	Enroll(ctx context.Context, studentID, courseID int64) error
	Unenroll(ctx context.Context, studentID, courseID int64) error
	AssignInstructor(ctx context.Context, courseID, instructorID int64) error

	// Relation views: the other side of each association, for rendering
	// a record together with its relations. NotFound when the entity
	// itself does not exist.
	ListStudentCourses(ctx context.Context, studentID int64) ([]domain.Course, error)
	ListInstructorCourses(ctx context.Context, instructorID int64) ([]domain.Course, error)
	ListCourseStudents(ctx context.Context, courseID int64) ([]domain.Student, error)

	// Snapshot returns one consistent view of all five relations.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)

	// Backup copies the live database file to dest.
	Backup(ctx context.Context, dest string) error

	// Close releases resources
	Close() error
}
