package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/domain"
	"registrar/internal/repository/sqlite"
	"registrar/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	h := NewSchoolHandler(service.NewSchool(repo), zerolog.Nop(), t.TempDir())
	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(Chain(mux, Recover(zerolog.Nop()), CORS))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestCreateAndGetStudent(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/students",
		`{"name": "Ana", "age": 20, "email": "ana@x.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Student
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Ana", created.Name)

	resp, body = doJSON(t, srv, http.MethodGet, "/api/students/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.Student
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created, got)
}

func TestCreateStudentValidationError(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/students",
		`{"name": "", "age": 0, "email": "nope"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "validation failed", errResp.Error)
	require.Len(t, errResp.Fields, 3)
	assert.Equal(t, "name", errResp.Fields[0].Field)
}

func TestCreateStudentMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/students", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDuplicateEmailConflict(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/students",
		`{"name": "Ana", "age": 20, "email": "ana@x.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/students",
		`{"name": "Other", "age": 30, "email": "ana@x.com"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Contains(t, errResp.Error, "ana@x.com")
}

func TestGetStudentNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/students/42", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBadPathID(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/students/abc", "/api/students/0", "/api/students/-1"} {
		resp, _ := doJSON(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestUpdateStudentReturnsUpdated(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/students", `{"name": "Ana", "age": 20, "email": "ana@x.com"}`)

	resp, body := doJSON(t, srv, http.MethodPut, "/api/students/1",
		`{"name": "Ana Silva", "age": 21, "email": "ana@x.com"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.Student
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Ana Silva", got.Name)
	assert.Equal(t, 21, got.Age)
}

func TestDeleteStudent(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/students", `{"name": "Ana", "age": 20, "email": "ana@x.com"}`)

	resp, _ := doJSON(t, srv, http.MethodDelete, "/api/students/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodDelete, "/api/students/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListStudentsFilterQuery(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/students", `{"name": "Ana", "age": 20, "email": "ana@x.com"}`)
	doJSON(t, srv, http.MethodPost, "/api/students", `{"name": "Bob", "age": 22, "email": "bob@x.com"}`)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/students?q=bob", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var students []domain.Student
	require.NoError(t, json.Unmarshal(body, &students))
	require.Len(t, students, 1)
	assert.Equal(t, "Bob", students[0].Name)
}

func TestEnrollmentEndpoints(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/students", `{"name": "Ana", "age": 20, "email": "ana@x.com"}`)
	doJSON(t, srv, http.MethodPost, "/api/courses", `{"name": "Algebra"}`)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/students/1/enrollments", `{"course_id": 1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var e domain.Enrollment
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, domain.Enrollment{StudentID: 1, CourseID: 1}, e)

	// double enrollment conflicts
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/students/1/enrollments", `{"course_id": 1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// unknown course 404s
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/students/1/enrollments", `{"course_id": 9}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodDelete, "/api/students/1/enrollments/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodDelete, "/api/students/1/enrollments/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssignInstructorEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/instructors", `{"name": "Dr. Lee", "age": 50, "email": "lee@x.com"}`)
	doJSON(t, srv, http.MethodPost, "/api/courses", `{"name": "Algebra"}`)

	resp, body := doJSON(t, srv, http.MethodPut, "/api/courses/1/instructor", `{"instructor_id": 1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a domain.Assignment
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, domain.Assignment{CourseID: 1, InstructorID: 1}, a)

	resp, body = doJSON(t, srv, http.MethodGet, "/api/courses/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c domain.Course
	require.NoError(t, json.Unmarshal(body, &c))
	require.NotNil(t, c.InstructorID)
	assert.Equal(t, int64(1), *c.InstructorID)
}

func TestRelationViewEndpoints(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/students", `{"name": "Ana", "age": 20, "email": "ana@x.com"}`)
	doJSON(t, srv, http.MethodPost, "/api/instructors", `{"name": "Dr. Lee", "age": 50, "email": "lee@x.com"}`)
	doJSON(t, srv, http.MethodPost, "/api/courses", `{"name": "Algebra", "instructor_id": 1}`)
	doJSON(t, srv, http.MethodPost, "/api/courses", `{"name": "History"}`)
	doJSON(t, srv, http.MethodPost, "/api/students/1/enrollments", `{"course_id": 1}`)
	doJSON(t, srv, http.MethodPost, "/api/students/1/enrollments", `{"course_id": 2}`)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/students/1/enrollments", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var courses []domain.Course
	require.NoError(t, json.Unmarshal(body, &courses))
	require.Len(t, courses, 2)
	assert.Equal(t, "Algebra", courses[0].Name)

	resp, body = doJSON(t, srv, http.MethodGet, "/api/courses/1/students", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var roster []domain.Student
	require.NoError(t, json.Unmarshal(body, &roster))
	require.Len(t, roster, 1)
	assert.Equal(t, "Ana", roster[0].Name)

	resp, body = doJSON(t, srv, http.MethodGet, "/api/instructors/1/courses", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "Algebra", courses[0].Name)

	// unknown entities 404
	for _, path := range []string{
		"/api/students/9/enrollments",
		"/api/courses/9/students",
		"/api/instructors/9/courses",
	} {
		resp, _ := doJSON(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestExportEndpoints(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/students", `{"name": "Ana", "age": 20, "email": "ana@x.com"}`)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/export/json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "school_data.json")
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.Len(t, snap.Students, 1)

	resp, body = doJSON(t, srv, http.MethodGet, "/api/export/csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "1,Ana,20,ana@x.com")
}

func TestExportStorageFailure(t *testing.T) {
	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)

	h := NewSchoolHandler(service.NewSchool(repo), zerolog.Nop(), t.TempDir())
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	// with the store closed, export must answer an error status, not a
	// truncated 200
	require.NoError(t, repo.Close())

	for _, path := range []string{"/api/export/json", "/api/export/csv"} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"), path)
	}
}

func TestImportEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doc := `{"students": [{"id": 0, "name": "Ana", "age": 20, "email": "ana@x.com"}]}`
	resp, body := doJSON(t, srv, http.MethodPost, "/api/import/json", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sum service.ImportSummary
	require.NoError(t, json.Unmarshal(body, &sum))
	assert.Equal(t, 1, sum.Created)
	assert.Empty(t, sum.Failed)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/import/json", "{broken")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/students", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRecoverMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Chain(panicky, Recover(zerolog.Nop()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
