package domain

// Student is a registered student record.
type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// NewStudent carries the caller-supplied fields for creating or
// updating a student. The identifier is never part of it; ids are
// allocated by the store and immutable afterwards.
type NewStudent struct {
	Name  string `json:"name" validate:"notblank"`
	Age   int    `json:"age" validate:"gt=0"`
	Email string `json:"email" validate:"required,email"`
}
