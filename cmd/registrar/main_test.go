package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/repository/sqlite"
	"registrar/internal/service"
)

func TestSeedFromFile(t *testing.T) {
	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	svc := service.NewSchool(repo)

	seed := filepath.Join(t.TempDir(), "school_data.json")
	doc := `{
		"students": [{"id": 1, "name": "Ana", "age": 20, "email": "ana@x.com"}],
		"courses": [{"id": 1, "name": "Algebra"}],
		"enrollments": [{"student_id": 1, "course_id": 1}]
	}`
	require.NoError(t, os.WriteFile(seed, []byte(doc), 0o644))

	require.NoError(t, seedFromFile(svc, seed, zerolog.Nop()))

	students, err := svc.ListStudents(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana", students[0].Name)

	// running the seed again upserts without duplicating
	require.NoError(t, seedFromFile(svc, seed, zerolog.Nop()))
	students, err = svc.ListStudents(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestSeedFromFileMissing(t *testing.T) {
	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	// a missing seed file is not an error
	err = seedFromFile(service.NewSchool(repo), filepath.Join(t.TempDir(), "nope.json"), zerolog.Nop())
	assert.NoError(t, err)
}

func TestSeedFromFileMalformed(t *testing.T) {
	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	seed := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(seed, []byte("{broken"), 0o644))

	err = seedFromFile(service.NewSchool(repo), seed, zerolog.Nop())
	assert.Error(t, err)
}
