package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"registrar/internal/domain"
)

// CSVCodec exports the data set as sectioned CSV: each relation gets a
// label row, a header row and its data rows, separated by a blank row.
// Export only; CSV is a human-readable report, not an import format.
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// Export writes all five sections to w.
func (c *CSVCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	cw := csv.NewWriter(w)

	sections := []struct {
		label  string
		header []string
		rows   func() [][]string
	}{
		{"students", []string{"id", "name", "age", "email"}, func() [][]string {
			rows := make([][]string, 0, len(snap.Students))
			for _, s := range snap.Students {
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10), s.Name, strconv.Itoa(s.Age), s.Email,
				})
			}
			return rows
		}},
		{"instructors", []string{"id", "name", "age", "email"}, func() [][]string {
			rows := make([][]string, 0, len(snap.Instructors))
			for _, in := range snap.Instructors {
				rows = append(rows, []string{
					strconv.FormatInt(in.ID, 10), in.Name, strconv.Itoa(in.Age), in.Email,
				})
			}
			return rows
		}},
		{"courses", []string{"id", "name", "instructor_id"}, func() [][]string {
			rows := make([][]string, 0, len(snap.Courses))
			for _, c := range snap.Courses {
				instructor := ""
				if c.InstructorID != nil {
					instructor = strconv.FormatInt(*c.InstructorID, 10)
				}
				rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name, instructor})
			}
			return rows
		}},
		{"enrollments", []string{"student_id", "course_id"}, func() [][]string {
			rows := make([][]string, 0, len(snap.Enrollments))
			for _, e := range snap.Enrollments {
				rows = append(rows, []string{
					strconv.FormatInt(e.StudentID, 10), strconv.FormatInt(e.CourseID, 10),
				})
			}
			return rows
		}},
		{"assignments", []string{"course_id", "instructor_id"}, func() [][]string {
			rows := make([][]string, 0, len(snap.Assignments))
			for _, a := range snap.Assignments {
				rows = append(rows, []string{
					strconv.FormatInt(a.CourseID, 10), strconv.FormatInt(a.InstructorID, 10),
				})
			}
			return rows
		}},
	}

	for _, section := range sections {
		if err := cw.Write([]string{section.label}); err != nil {
			return fmt.Errorf("write section label: %w", err)
		}
		if err := cw.Write(section.header); err != nil {
			return fmt.Errorf("write section header: %w", err)
		}
		for _, row := range section.rows() {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write %s row: %w", section.label, err)
			}
		}
		// blank separator row between sections
		if err := cw.Write([]string{""}); err != nil {
			return fmt.Errorf("write separator: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
