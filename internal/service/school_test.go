package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/domain"
	"registrar/internal/repository/sqlite"
)

func newTestSchool(t *testing.T) *School {
	t.Helper()
	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return NewSchool(repo)
}

func TestAddStudentValidation(t *testing.T) {
	svc := newTestSchool(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		input  domain.NewStudent
		fields []string
	}{
		{
			name:   "blank name",
			input:  domain.NewStudent{Name: "   ", Age: 20, Email: "a@x.com"},
			fields: []string{"name"},
		},
		{
			name:   "zero age",
			input:  domain.NewStudent{Name: "Ana", Age: 0, Email: "a@x.com"},
			fields: []string{"age"},
		},
		{
			name:   "negative age",
			input:  domain.NewStudent{Name: "Ana", Age: -3, Email: "a@x.com"},
			fields: []string{"age"},
		},
		{
			name:   "bad email",
			input:  domain.NewStudent{Name: "Ana", Age: 20, Email: "not-an-email"},
			fields: []string{"email"},
		},
		{
			name:   "all fields invalid at once",
			input:  domain.NewStudent{Name: "", Age: 0, Email: ""},
			fields: []string{"name", "age", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddStudent(ctx, tt.input)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			got := []string{}
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}

	// nothing invalid was persisted
	students, err := svc.ListStudents(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestAddStudentTrimsWhitespace(t *testing.T) {
	svc := newTestSchool(t)
	ctx := context.Background()

	id, err := svc.AddStudent(ctx, domain.NewStudent{Name: "  Ana  ", Age: 20, Email: " ana@x.com "})
	require.NoError(t, err)

	s, err := svc.GetStudent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", s.Name)
	assert.Equal(t, "ana@x.com", s.Email)
}

func TestStudentLifecycle(t *testing.T) {
	svc := newTestSchool(t)
	ctx := context.Background()

	id, err := svc.AddStudent(ctx, domain.NewStudent{Name: "Ana", Age: 20, Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.NoError(t, svc.UpdateStudent(ctx, id, domain.NewStudent{Name: "Ana Silva", Age: 21, Email: "ana@x.com"}))

	s, err := svc.GetStudent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", s.Name)
	assert.Equal(t, 21, s.Age)

	require.NoError(t, svc.DeleteStudent(ctx, id))

	var notFound *domain.NotFoundError
	_, err = svc.GetStudent(ctx, id)
	assert.ErrorAs(t, err, &notFound)
}

func TestUpdateValidatesBeforeTouchingStore(t *testing.T) {
	svc := newTestSchool(t)
	ctx := context.Background()

	id, err := svc.AddStudent(ctx, domain.NewStudent{Name: "Ana", Age: 20, Email: "ana@x.com"})
	require.NoError(t, err)

	err = svc.UpdateStudent(ctx, id, domain.NewStudent{Name: "", Age: 20, Email: "ana@x.com"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	s, err := svc.GetStudent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", s.Name)
}

func TestAddCourseWithInstructor(t *testing.T) {
	svc := newTestSchool(t)
	ctx := context.Background()

	instructorID, err := svc.AddInstructor(ctx, domain.NewInstructor{Name: "Dr. Lee", Age: 50, Email: "lee@x.com"})
	require.NoError(t, err)

	courseID, err := svc.AddCourse(ctx, domain.NewCourse{Name: "Algebra", InstructorID: &instructorID})
	require.NoError(t, err)

	c, err := svc.GetCourse(ctx, courseID)
	require.NoError(t, err)
	require.NotNil(t, c.InstructorID)
	assert.Equal(t, instructorID, *c.InstructorID)
}

func TestCourseNameValidation(t *testing.T) {
	svc := newTestSchool(t)

	_, err := svc.AddCourse(context.Background(), domain.NewCourse{Name: "\t"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "name", verr.Fields[0].Field)
}

func TestEnrollmentFlow(t *testing.T) {
	svc := newTestSchool(t)
	ctx := context.Background()

	studentID, err := svc.AddStudent(ctx, domain.NewStudent{Name: "Ana", Age: 20, Email: "ana@x.com"})
	require.NoError(t, err)
	courseID, err := svc.AddCourse(ctx, domain.NewCourse{Name: "Algebra"})
	require.NoError(t, err)

	require.NoError(t, svc.Enroll(ctx, studentID, courseID))

	var already *domain.AlreadyEnrolledError
	err = svc.Enroll(ctx, studentID, courseID)
	require.ErrorAs(t, err, &already)

	require.NoError(t, svc.Unenroll(ctx, studentID, courseID))
	require.NoError(t, svc.Enroll(ctx, studentID, courseID))
}
