package handler

import (
	"html/template"
	"net/http"

	"github.com/labstack/gommon/log"

	"attendance/internal/entity"
)

type TeacherHandler struct {
	attendance TeacherAttendance
	dashboard
}

func NewTeacherHandler(users UserFinder, attendance TeacherAttendance, s SessionManager, tmpl *template.Template, logger *log.Logger) *TeacherHandler {
	return &TeacherHandler{
		attendance: attendance,
		dashboard: dashboard{
			users:    users,
			sessions: s,
			renderer: renderer{tmpl: tmpl, logger: logger},
		},
	}
}

type teacherPage = dashboardPage[entity.TeacherAttendanceRow, entity.TeacherSummaryRow]

// Dashboard shows attendance in every section the teacher instructs, with a
// per (course, student) summary.
func (h *TeacherHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	records, err := h.attendance.TeacherRecords(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	summary, err := h.attendance.TeacherSummary(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	course := r.URL.Query().Get("course")
	h.html(w, http.StatusOK, "teacher.html", teacherPage{
		Username:       user.Username,
		FullName:       user.Name,
		Records:        entity.FilterByCourse(records, course),
		Summary:        entity.FilterByCourse(summary, course),
		CourseList:     entity.CourseList(records),
		SelectedCourse: course,
	})
}
