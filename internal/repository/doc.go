// Package repository defines the data access interface for the school
// registrar core.
//
// This package provides the repository abstraction for persisting and
// retrieving domain entities. The actual implementation is in the
// sqlite subpackage.
//
// # Repository Interface
//
// The Repository interface defines all data access methods for
// students, instructors, courses, enrollments and instructor
// assignments, plus whole-store snapshot reads and file backup.
//
// # SQLite Implementation
//
// The sqlite implementation provides a complete repository using a
// single-file SQLite database with WAL mode. It handles:
//
// - CRUD operations for the three entity types
// - Case-insensitive substring filtering for live search
// - Foreign key constraints and cascade deletes
// - Transactional mutations (all-or-nothing, including cascades)
// - Byte-copy backups of the live database file
//
// # Schema
//
// The sqlite repository creates its schema idempotently on open; a
// reopened database is left untouched.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases to
// verify cascades, uniqueness and filter behavior.
package repository
