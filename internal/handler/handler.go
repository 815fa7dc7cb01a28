// Package handler serves the login page and the attendance dashboards.
package handler

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/labstack/gommon/log"

	"attendance/internal/auth"
	"attendance/internal/entity"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string, role entity.Role) (entity.User, error)
}

type SessionManager interface {
	Start(w http.ResponseWriter, r *http.Request, id auth.Identity) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

type UserFinder interface {
	GetByID(ctx context.Context, id int) (entity.User, error)
}

type StudentAttendance interface {
	StudentRecords(ctx context.Context, studentID int) ([]entity.StudentAttendanceRow, error)
	StudentSummary(ctx context.Context, studentID int) ([]entity.StudentSummaryRow, error)
}

type TeacherAttendance interface {
	TeacherRecords(ctx context.Context, teacherID int) ([]entity.TeacherAttendanceRow, error)
	TeacherSummary(ctx context.Context, teacherID int) ([]entity.TeacherSummaryRow, error)
}

// renderer executes a page into a buffer first so a failing template never
// leaves a half-written response.
type renderer struct {
	tmpl   *template.Template
	logger *log.Logger
}

func (rd renderer) html(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := rd.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		rd.logger.Errorf("render %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rd renderer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	rd.logger.Errorf("%s %s: %+v", r.Method, r.URL.Path, err)
	rd.html(w, http.StatusInternalServerError, "error.html", nil)
}
