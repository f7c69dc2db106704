package domain

// Instructor is a teaching staff record. Instructors and students have
// independent email namespaces.
type Instructor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// NewInstructor carries the caller-supplied fields for creating or
// updating an instructor.
type NewInstructor struct {
	Name  string `json:"name" validate:"notblank"`
	Age   int    `json:"age" validate:"gt=0"`
	Email string `json:"email" validate:"required,email"`
}
