package domain

// Enrollment links a student to a course. A given (student, course)
// pair exists at most once.
type Enrollment struct {
	StudentID int64 `json:"student_id"`
	CourseID  int64 `json:"course_id"`
}

// Assignment links a course to its instructor. The course id is the
// key: assigning a new instructor replaces the previous assignment.
type Assignment struct {
	CourseID     int64 `json:"course_id"`
	InstructorID int64 `json:"instructor_id"`
}

// Snapshot is the complete data set, as read from the store in one
// consistent view. It is the unit of import and export.
type Snapshot struct {
	Students    []Student    `json:"students"`
	Instructors []Instructor `json:"instructors"`
	Courses     []Course     `json:"courses"`
	Enrollments []Enrollment `json:"enrollments"`
	Assignments []Assignment `json:"assignments"`
}

// NewSnapshot returns an empty snapshot with all sections allocated so
// they serialize as [] rather than null.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Students:    []Student{},
		Instructors: []Instructor{},
		Courses:     []Course{},
		Enrollments: []Enrollment{},
		Assignments: []Assignment{},
	}
}
