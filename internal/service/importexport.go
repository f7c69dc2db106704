package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"registrar/internal/codec"
	"registrar/internal/domain"
)

// ImportFailure records why a single document record was rejected.
type ImportFailure struct {
	Section string `json:"section"`
	ID      int64  `json:"id"`
	Reason  string `json:"reason"`
}

// ImportSummary reports the outcome of a bulk import. Created and
// Updated count entity records; association rows are applied
// idempotently and only show up here when they fail.
type ImportSummary struct {
	Created int             `json:"created"`
	Updated int             `json:"updated"`
	Failed  []ImportFailure `json:"failed"`
}

func (sum *ImportSummary) fail(section string, id int64, err error) {
	sum.Failed = append(sum.Failed, ImportFailure{Section: section, ID: id, Reason: err.Error()})
}

// ExportJSON writes the full data set to w as a JSON document.
func (s *School) ExportJSON(ctx context.Context, w io.Writer) error {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return err
	}
	return codec.NewJSONCodec().Export(snap, w)
}

// ExportCSV writes the full data set to w as sectioned CSV.
func (s *School) ExportCSV(ctx context.Context, w io.Writer) error {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return err
	}
	return codec.NewCSVCodec().Export(snap, w)
}

// ImportJSON reads a snapshot document from r and upserts every record
// by identifier: existing ids are updated in place, new ones are
// inserted. Records are applied in foreign-key-safe order (instructors,
// students, courses, then associations). A bad record never aborts the
// import; its failure is collected in the summary. Only a malformed
// document is a fatal error.
func (s *School) ImportJSON(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	snap, err := codec.NewJSONCodec().Parse(r)
	if err != nil {
		return nil, err
	}

	sum := &ImportSummary{Failed: []ImportFailure{}}

	for _, in := range snap.Instructors {
		s.importInstructor(ctx, in, sum)
	}
	for _, st := range snap.Students {
		s.importStudent(ctx, st, sum)
	}
	for _, c := range snap.Courses {
		s.importCourse(ctx, c, sum)
	}
	for _, a := range snap.Assignments {
		if err := s.repo.AssignInstructor(ctx, a.CourseID, a.InstructorID); err != nil {
			sum.fail("assignments", a.CourseID, err)
		}
	}
	for _, e := range snap.Enrollments {
		err := s.repo.Enroll(ctx, e.StudentID, e.CourseID)
		var already *domain.AlreadyEnrolledError
		if errors.As(err, &already) {
			// pair exists, re-import is a no-op
			continue
		}
		if err != nil {
			sum.fail("enrollments", e.StudentID, err)
		}
	}

	return sum, nil
}

func (s *School) importStudent(ctx context.Context, st domain.Student, sum *ImportSummary) {
	// same normalization as AddStudent
	st.Name = strings.TrimSpace(st.Name)
	st.Email = strings.TrimSpace(st.Email)
	input := domain.NewStudent{Name: st.Name, Age: st.Age, Email: st.Email}
	if err := s.check(input); err != nil {
		sum.fail("students", st.ID, err)
		return
	}

	if st.ID > 0 {
		if _, err := s.repo.GetStudent(ctx, st.ID); err == nil {
			if err := s.repo.UpdateStudent(ctx, &st); err != nil {
				sum.fail("students", st.ID, err)
				return
			}
			sum.Updated++
			return
		} else if !isNotFound(err) {
			sum.fail("students", st.ID, err)
			return
		}
	}

	if _, err := s.repo.InsertStudent(ctx, &st); err != nil {
		sum.fail("students", st.ID, err)
		return
	}
	sum.Created++
}

func (s *School) importInstructor(ctx context.Context, in domain.Instructor, sum *ImportSummary) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	input := domain.NewInstructor{Name: in.Name, Age: in.Age, Email: in.Email}
	if err := s.check(input); err != nil {
		sum.fail("instructors", in.ID, err)
		return
	}

	if in.ID > 0 {
		if _, err := s.repo.GetInstructor(ctx, in.ID); err == nil {
			if err := s.repo.UpdateInstructor(ctx, &in); err != nil {
				sum.fail("instructors", in.ID, err)
				return
			}
			sum.Updated++
			return
		} else if !isNotFound(err) {
			sum.fail("instructors", in.ID, err)
			return
		}
	}

	if _, err := s.repo.InsertInstructor(ctx, &in); err != nil {
		sum.fail("instructors", in.ID, err)
		return
	}
	sum.Created++
}

func (s *School) importCourse(ctx context.Context, c domain.Course, sum *ImportSummary) {
	c.Name = strings.TrimSpace(c.Name)
	input := domain.NewCourse{Name: c.Name, InstructorID: c.InstructorID}
	if err := s.check(input); err != nil {
		sum.fail("courses", c.ID, err)
		return
	}

	if c.ID > 0 {
		if _, err := s.repo.GetCourse(ctx, c.ID); err == nil {
			if err := s.repo.UpdateCourse(ctx, &c); err != nil {
				sum.fail("courses", c.ID, err)
				return
			}
			sum.Updated++
			return
		} else if !isNotFound(err) {
			sum.fail("courses", c.ID, err)
			return
		}
	}

	if _, err := s.repo.InsertCourse(ctx, &c); err != nil {
		sum.fail("courses", c.ID, err)
		return
	}
	sum.Created++
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}

// Backup copies the live database file and returns the path written.
// When dest is empty or an existing directory, a timestamped file name
// is generated inside it.
func (s *School) Backup(ctx context.Context, dest string) (string, error) {
	if dest == "" {
		dest = "."
	}
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		name := fmt.Sprintf("school-%s.db", time.Now().Format("20060102-150405"))
		dest = filepath.Join(dest, name)
	}
	if err := s.repo.Backup(ctx, dest); err != nil {
		return "", err
	}
	return dest, nil
}
