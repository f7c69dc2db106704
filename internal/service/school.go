package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"registrar/internal/domain"
	"registrar/internal/repository"
)

// School provides the full registrar operation set over a repository.
type School struct {
	repo     repository.Repository
	validate *validator.Validate
}

// NewSchool creates the school service.
func NewSchool(repo repository.Repository) *School {
	return &School{
		repo:     repo,
		validate: newValidator(),
	}
}

// ============================================================================
// Students
// ============================================================================

// AddStudent validates the input and persists a new student, returning
// the allocated identifier. Name and email are trimmed before
// validation so surrounding whitespace never reaches the store.
func (s *School) AddStudent(ctx context.Context, input domain.NewStudent) (int64, error) {
	input = trimStudent(input)
	if err := s.check(input); err != nil {
		return 0, err
	}
	return s.repo.InsertStudent(ctx, &domain.Student{
		Name:  input.Name,
		Age:   input.Age,
		Email: input.Email,
	})
}

// UpdateStudent re-validates and replaces the mutable fields of the
// student; the identifier never changes.
func (s *School) UpdateStudent(ctx context.Context, id int64, input domain.NewStudent) error {
	input = trimStudent(input)
	if err := s.check(input); err != nil {
		return err
	}
	return s.repo.UpdateStudent(ctx, &domain.Student{
		ID:    id,
		Name:  input.Name,
		Age:   input.Age,
		Email: input.Email,
	})
}

func trimStudent(input domain.NewStudent) domain.NewStudent {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	return input
}

// GetStudent looks up a single student.
func (s *School) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	return s.repo.GetStudent(ctx, id)
}

// ListStudents returns students matching filter by name or email,
// recomputed on every call so the UI can search live.
func (s *School) ListStudents(ctx context.Context, filter string) ([]domain.Student, error) {
	return s.repo.ListStudents(ctx, filter)
}

// DeleteStudent removes a student and cascades its enrollments.
func (s *School) DeleteStudent(ctx context.Context, id int64) error {
	return s.repo.DeleteStudent(ctx, id)
}

// ============================================================================
// Instructors
// ============================================================================

// AddInstructor validates the input and persists a new instructor.
func (s *School) AddInstructor(ctx context.Context, input domain.NewInstructor) (int64, error) {
	input = trimInstructor(input)
	if err := s.check(input); err != nil {
		return 0, err
	}
	return s.repo.InsertInstructor(ctx, &domain.Instructor{
		Name:  input.Name,
		Age:   input.Age,
		Email: input.Email,
	})
}

// UpdateInstructor re-validates and replaces the mutable fields of the
// instructor.
func (s *School) UpdateInstructor(ctx context.Context, id int64, input domain.NewInstructor) error {
	input = trimInstructor(input)
	if err := s.check(input); err != nil {
		return err
	}
	return s.repo.UpdateInstructor(ctx, &domain.Instructor{
		ID:    id,
		Name:  input.Name,
		Age:   input.Age,
		Email: input.Email,
	})
}

func trimInstructor(input domain.NewInstructor) domain.NewInstructor {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	return input
}

// GetInstructor looks up a single instructor.
func (s *School) GetInstructor(ctx context.Context, id int64) (*domain.Instructor, error) {
	return s.repo.GetInstructor(ctx, id)
}

// ListInstructors returns instructors matching filter by name or email.
func (s *School) ListInstructors(ctx context.Context, filter string) ([]domain.Instructor, error) {
	return s.repo.ListInstructors(ctx, filter)
}

// DeleteInstructor removes an instructor. Courses it taught survive,
// with their instructor reference cleared.
func (s *School) DeleteInstructor(ctx context.Context, id int64) error {
	return s.repo.DeleteInstructor(ctx, id)
}

// ============================================================================
// Courses
// ============================================================================

// AddCourse validates the input and persists a new course, assigning
// the given instructor in the same transaction when one is supplied.
func (s *School) AddCourse(ctx context.Context, input domain.NewCourse) (int64, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.check(input); err != nil {
		return 0, err
	}
	return s.repo.InsertCourse(ctx, &domain.Course{
		Name:         input.Name,
		InstructorID: input.InstructorID,
	})
}

// UpdateCourse re-validates and replaces the course fields. A nil
// InstructorID clears any current assignment.
func (s *School) UpdateCourse(ctx context.Context, id int64, input domain.NewCourse) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.check(input); err != nil {
		return err
	}
	return s.repo.UpdateCourse(ctx, &domain.Course{
		ID:           id,
		Name:         input.Name,
		InstructorID: input.InstructorID,
	})
}

// GetCourse looks up a single course.
func (s *School) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	return s.repo.GetCourse(ctx, id)
}

// ListCourses returns courses matching filter by name.
func (s *School) ListCourses(ctx context.Context, filter string) ([]domain.Course, error) {
	return s.repo.ListCourses(ctx, filter)
}

// DeleteCourse removes a course and cascades its enrollments and
// assignment.
func (s *School) DeleteCourse(ctx context.Context, id int64) error {
	return s.repo.DeleteCourse(ctx, id)
}

// ============================================================================
// Associations
// ============================================================================

// Enroll registers a student in a course.
func (s *School) Enroll(ctx context.Context, studentID, courseID int64) error {
	return s.repo.Enroll(ctx, studentID, courseID)
}

// Unenroll removes a student from a course.
func (s *School) Unenroll(ctx context.Context, studentID, courseID int64) error {
	return s.repo.Unenroll(ctx, studentID, courseID)
}

// AssignInstructor sets the instructor for a course, replacing any
// prior assignment.
func (s *School) AssignInstructor(ctx context.Context, courseID, instructorID int64) error {
	return s.repo.AssignInstructor(ctx, courseID, instructorID)
}

// StudentCourses returns the courses the student is enrolled in.
func (s *School) StudentCourses(ctx context.Context, studentID int64) ([]domain.Course, error) {
	return s.repo.ListStudentCourses(ctx, studentID)
}

// InstructorCourses returns the courses currently assigned to the
// instructor.
func (s *School) InstructorCourses(ctx context.Context, instructorID int64) ([]domain.Course, error) {
	return s.repo.ListInstructorCourses(ctx, instructorID)
}

// CourseStudents returns the roster of a course.
func (s *School) CourseStudents(ctx context.Context, courseID int64) ([]domain.Student, error) {
	return s.repo.ListCourseStudents(ctx, courseID)
}
