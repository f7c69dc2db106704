package domain

// Course is an offered course. InstructorID reflects the current
// assignment, if any; a course has at most one instructor at a time.
type Course struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	InstructorID *int64 `json:"instructor_id,omitempty"`
}

// NewCourse carries the caller-supplied fields for creating or updating
// a course. A nil InstructorID leaves the course unassigned.
type NewCourse struct {
	Name         string `json:"name" validate:"notblank"`
	InstructorID *int64 `json:"instructor_id,omitempty"`
}
