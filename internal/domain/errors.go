package domain

import "fmt"

// FieldError describes a single violated field constraint.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every violated constraint of an input, not
// just the first one, so a caller can surface all of them at once.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msg := "validation failed:"
	for _, f := range e.Fields {
		msg += fmt.Sprintf(" %s %s;", f.Field, f.Reason)
	}
	return msg[:len(msg)-1]
}

// DuplicateKeyError indicates a unique-key collision, typically on an
// email address or an explicitly supplied identifier.
type DuplicateKeyError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// NotFoundError indicates the referenced entity (or association pair)
// does not exist. ID is zero when Entity already names the full target,
// as with an enrollment pair.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// AlreadyEnrolledError indicates the (student, course) pair exists.
type AlreadyEnrolledError struct {
	StudentID int64
	CourseID  int64
}

func (e *AlreadyEnrolledError) Error() string {
	return fmt.Sprintf("student %d is already enrolled in course %d", e.StudentID, e.CourseID)
}

// StorageUnavailableError indicates the database file could not be
// opened, created or migrated. Fatal to the current operation.
type StorageUnavailableError struct {
	Path string
	Err  error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable at %s: %v", e.Path, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

// IOError indicates a backup or export path problem. Recoverable by
// retrying with a different path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
