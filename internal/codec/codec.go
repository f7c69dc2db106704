package codec

import (
	"io"

	"registrar/internal/domain"
)

// Importer parses a full data set document from r.
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter writes a full data set document to w.
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
}
