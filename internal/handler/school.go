package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"registrar/internal/domain"
	"registrar/internal/service"
)

// SchoolHandler exposes the registrar operation set over HTTP. It
// contains no business logic: it decodes requests, invokes the
// service, and renders results or errors.
type SchoolHandler struct {
	svc       *service.School
	log       zerolog.Logger
	backupDir string
}

// NewSchoolHandler creates the handler. backupDir receives timestamped
// backups when a request does not name a destination.
func NewSchoolHandler(svc *service.School, log zerolog.Logger, backupDir string) *SchoolHandler {
	return &SchoolHandler{svc: svc, log: log, backupDir: backupDir}
}

// Register wires all routes onto mux.
func (h *SchoolHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/students", h.ListStudents)
	mux.HandleFunc("POST /api/students", h.CreateStudent)
	mux.HandleFunc("GET /api/students/{id}", h.GetStudent)
	mux.HandleFunc("PUT /api/students/{id}", h.UpdateStudent)
	mux.HandleFunc("DELETE /api/students/{id}", h.DeleteStudent)

	mux.HandleFunc("GET /api/instructors", h.ListInstructors)
	mux.HandleFunc("POST /api/instructors", h.CreateInstructor)
	mux.HandleFunc("GET /api/instructors/{id}", h.GetInstructor)
	mux.HandleFunc("PUT /api/instructors/{id}", h.UpdateInstructor)
	mux.HandleFunc("DELETE /api/instructors/{id}", h.DeleteInstructor)

	mux.HandleFunc("GET /api/courses", h.ListCourses)
	mux.HandleFunc("POST /api/courses", h.CreateCourse)
	mux.HandleFunc("GET /api/courses/{id}", h.GetCourse)
	mux.HandleFunc("PUT /api/courses/{id}", h.UpdateCourse)
	mux.HandleFunc("DELETE /api/courses/{id}", h.DeleteCourse)

	mux.HandleFunc("POST /api/students/{id}/enrollments", h.Enroll)
	mux.HandleFunc("GET /api/students/{id}/enrollments", h.StudentCourses)
	mux.HandleFunc("DELETE /api/students/{id}/enrollments/{courseID}", h.Unenroll)
	mux.HandleFunc("PUT /api/courses/{id}/instructor", h.AssignInstructor)
	mux.HandleFunc("GET /api/courses/{id}/students", h.CourseStudents)
	mux.HandleFunc("GET /api/instructors/{id}/courses", h.InstructorCourses)

	mux.HandleFunc("GET /api/export/json", h.ExportJSON)
	mux.HandleFunc("GET /api/export/csv", h.ExportCSV)
	mux.HandleFunc("POST /api/import/json", h.ImportJSON)
	mux.HandleFunc("POST /api/backup", h.Backup)
}

// ErrorResponse is the error body for all endpoints. Fields is only
// populated for validation failures.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// ============================================================================
// Students
// ============================================================================

func (h *SchoolHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.svc.ListStudents(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, students, http.StatusOK)
}

func (h *SchoolHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var input domain.NewStudent
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.badRequest(w, err)
		return
	}

	id, err := h.svc.AddStudent(r.Context(), input)
	if err != nil {
		h.renderError(w, err)
		return
	}

	student, err := h.svc.GetStudent(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, student, http.StatusCreated)
}

func (h *SchoolHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	student, err := h.svc.GetStudent(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, student, http.StatusOK)
}

func (h *SchoolHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var input domain.NewStudent
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.badRequest(w, err)
		return
	}

	if err := h.svc.UpdateStudent(r.Context(), id, input); err != nil {
		h.renderError(w, err)
		return
	}

	student, err := h.svc.GetStudent(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, student, http.StatusOK)
}

func (h *SchoolHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteStudent(r.Context(), id); err != nil {
		h.renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Instructors
// ============================================================================

func (h *SchoolHandler) ListInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.svc.ListInstructors(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, instructors, http.StatusOK)
}

func (h *SchoolHandler) CreateInstructor(w http.ResponseWriter, r *http.Request) {
	var input domain.NewInstructor
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.badRequest(w, err)
		return
	}

	id, err := h.svc.AddInstructor(r.Context(), input)
	if err != nil {
		h.renderError(w, err)
		return
	}

	instructor, err := h.svc.GetInstructor(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, instructor, http.StatusCreated)
}

func (h *SchoolHandler) GetInstructor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	instructor, err := h.svc.GetInstructor(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, instructor, http.StatusOK)
}

func (h *SchoolHandler) UpdateInstructor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var input domain.NewInstructor
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.badRequest(w, err)
		return
	}

	if err := h.svc.UpdateInstructor(r.Context(), id, input); err != nil {
		h.renderError(w, err)
		return
	}

	instructor, err := h.svc.GetInstructor(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, instructor, http.StatusOK)
}

func (h *SchoolHandler) DeleteInstructor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteInstructor(r.Context(), id); err != nil {
		h.renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Courses
// ============================================================================

func (h *SchoolHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.ListCourses(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, courses, http.StatusOK)
}

func (h *SchoolHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var input domain.NewCourse
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.badRequest(w, err)
		return
	}

	id, err := h.svc.AddCourse(r.Context(), input)
	if err != nil {
		h.renderError(w, err)
		return
	}

	course, err := h.svc.GetCourse(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, course, http.StatusCreated)
}

func (h *SchoolHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	course, err := h.svc.GetCourse(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, course, http.StatusOK)
}

func (h *SchoolHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var input domain.NewCourse
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.badRequest(w, err)
		return
	}

	if err := h.svc.UpdateCourse(r.Context(), id, input); err != nil {
		h.renderError(w, err)
		return
	}

	course, err := h.svc.GetCourse(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, course, http.StatusOK)
}

func (h *SchoolHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCourse(r.Context(), id); err != nil {
		h.renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Associations
// ============================================================================

func (h *SchoolHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		CourseID int64 `json:"course_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, err)
		return
	}

	if err := h.svc.Enroll(r.Context(), studentID, req.CourseID); err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, domain.Enrollment{StudentID: studentID, CourseID: req.CourseID}, http.StatusCreated)
}

func (h *SchoolHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	courseID, ok := h.pathID(w, r, "courseID")
	if !ok {
		return
	}

	if err := h.svc.Unenroll(r.Context(), studentID, courseID); err != nil {
		h.renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SchoolHandler) AssignInstructor(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		InstructorID int64 `json:"instructor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, err)
		return
	}

	if err := h.svc.AssignInstructor(r.Context(), courseID, req.InstructorID); err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, domain.Assignment{CourseID: courseID, InstructorID: req.InstructorID}, http.StatusOK)
}

// StudentCourses lists the courses a student is enrolled in.
func (h *SchoolHandler) StudentCourses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	courses, err := h.svc.StudentCourses(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, courses, http.StatusOK)
}

// InstructorCourses lists the courses currently assigned to an
// instructor.
func (h *SchoolHandler) InstructorCourses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	courses, err := h.svc.InstructorCourses(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, courses, http.StatusOK)
}

// CourseStudents lists the roster of a course.
func (h *SchoolHandler) CourseStudents(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	students, err := h.svc.CourseStudents(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, students, http.StatusOK)
}

// ============================================================================
// Import / Export / Backup
// ============================================================================

// Exports buffer the document before any header is written so a
// storage failure still surfaces as an error status instead of a
// truncated 200.

func (h *SchoolHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.ExportJSON(r.Context(), &buf); err != nil {
		h.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=school_data.json")
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Error().Err(err).Msg("export json write failed")
	}
}

func (h *SchoolHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(r.Context(), &buf); err != nil {
		h.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=school_data.csv")
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Error().Err(err).Msg("export csv write failed")
	}
}

func (h *SchoolHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.ImportJSON(r.Context(), r.Body)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	h.writeJSON(w, summary, http.StatusOK)
}

func (h *SchoolHandler) Backup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	// body is optional; an empty path falls back to the backup dir
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Path == "" {
		req.Path = h.backupDir
	}

	path, err := h.svc.Backup(r.Context(), req.Path)
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"path": path}, http.StatusOK)
}

// ============================================================================
// Helpers
// ============================================================================

func (h *SchoolHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		h.writeJSON(w, ErrorResponse{Error: "invalid identifier"}, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *SchoolHandler) badRequest(w http.ResponseWriter, err error) {
	h.writeJSON(w, ErrorResponse{Error: err.Error()}, http.StatusBadRequest)
}

// renderError maps the service error taxonomy onto HTTP status codes.
func (h *SchoolHandler) renderError(w http.ResponseWriter, err error) {
	var (
		validation  *domain.ValidationError
		duplicate   *domain.DuplicateKeyError
		notFound    *domain.NotFoundError
		enrolled    *domain.AlreadyEnrolledError
		unavailable *domain.StorageUnavailableError
		ioErr       *domain.IOError
	)
	switch {
	case errors.As(err, &validation):
		h.writeJSON(w, ErrorResponse{Error: "validation failed", Fields: validation.Fields}, http.StatusBadRequest)
	case errors.As(err, &duplicate):
		h.writeJSON(w, ErrorResponse{Error: err.Error()}, http.StatusConflict)
	case errors.As(err, &enrolled):
		h.writeJSON(w, ErrorResponse{Error: err.Error()}, http.StatusConflict)
	case errors.As(err, &notFound):
		h.writeJSON(w, ErrorResponse{Error: err.Error()}, http.StatusNotFound)
	case errors.As(err, &unavailable):
		h.log.Error().Err(err).Msg("storage unavailable")
		h.writeJSON(w, ErrorResponse{Error: err.Error()}, http.StatusServiceUnavailable)
	case errors.As(err, &ioErr):
		h.writeJSON(w, ErrorResponse{Error: err.Error()}, http.StatusInternalServerError)
	default:
		h.log.Error().Err(err).Msg("internal error")
		h.writeJSON(w, ErrorResponse{Error: "internal server error"}, http.StatusInternalServerError)
	}
}

func (h *SchoolHandler) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}
