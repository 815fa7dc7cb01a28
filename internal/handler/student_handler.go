package handler

import (
	"html/template"
	"net/http"

	"github.com/labstack/gommon/log"

	"attendance/internal/entity"
)

type StudentHandler struct {
	attendance StudentAttendance
	dashboard
}

func NewStudentHandler(users UserFinder, attendance StudentAttendance, s SessionManager, tmpl *template.Template, logger *log.Logger) *StudentHandler {
	return &StudentHandler{
		attendance: attendance,
		dashboard: dashboard{
			users:    users,
			sessions: s,
			renderer: renderer{tmpl: tmpl, logger: logger},
		},
	}
}

type studentPage = dashboardPage[entity.StudentAttendanceRow, entity.StudentSummaryRow]

// Dashboard shows the student's attendance records and per-section summary.
func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	records, err := h.attendance.StudentRecords(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	summary, err := h.attendance.StudentSummary(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	course := r.URL.Query().Get("course")
	h.html(w, http.StatusOK, "student.html", studentPage{
		Username:       user.Username,
		FullName:       user.Name,
		Records:        entity.FilterByCourse(records, course),
		Summary:        entity.FilterByCourse(summary, course),
		CourseList:     entity.CourseList(records),
		SelectedCourse: course,
	})
}
