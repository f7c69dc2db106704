package sqlite

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"registrar/internal/domain"
)

// Backup copies the live database file to dest. The WAL is flushed
// into the main file first so the copy is a complete snapshot; reads
// from the live store keep working while the bytes are copied.
func (r *Repository) Backup(ctx context.Context, dest string) error {
	if strings.Contains(r.path, ":memory:") {
		return &domain.IOError{Op: "backup", Path: r.path, Err: errors.New("in-memory database has no file")}
	}

	if _, err := r.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return &domain.IOError{Op: "checkpoint", Path: r.path, Err: err}
	}

	src, err := os.Open(r.path)
	if err != nil {
		return &domain.IOError{Op: "open", Path: r.path, Err: err}
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return &domain.IOError{Op: "create", Path: dest, Err: err}
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return &domain.IOError{Op: "copy", Path: dest, Err: err}
	}
	if err := out.Close(); err != nil {
		return &domain.IOError{Op: "close", Path: dest, Err: err}
	}
	return nil
}
