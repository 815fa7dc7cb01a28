package entity

import "time"

// CourseOption is one (code, title) pair offered by the dashboard course filter.
type CourseOption struct {
	Code  string `db:"course_code"`
	Title string `db:"course_title"`
}

func (c CourseOption) Course() CourseOption {
	return c
}

type Coursed interface {
	Course() CourseOption
}

// StudentAttendanceRow is one attendance record of the logged-in student
// together with its enrollment, section, course, term and class session.
type StudentAttendanceRow struct {
	EnrollmentID int `db:"enrollment_id"`
	SectionID    int `db:"section_id"`
	CourseOption
	TermName    string           `db:"term_name"`
	TermStart   *time.Time       `db:"term_start"`
	TermEnd     *time.Time       `db:"term_end"`
	MeetingDays string           `db:"meeting_days"`
	StartTime   string           `db:"start_time"`
	EndTime     string           `db:"end_time"`
	Room        string           `db:"room"`
	SessionID   int              `db:"session_id"`
	SessionDate *time.Time       `db:"session_date"`
	RecordID    int              `db:"record_id"`
	Status      AttendanceStatus `db:"status"`
}

// StudentSummaryRow aggregates one section for the logged-in student.
type StudentSummaryRow struct {
	SectionID int `db:"section_id"`
	CourseOption
	TotalSessions     int     `db:"total_sessions"`
	Attended          int     `db:"attended"`
	AttendancePercent float64 `db:"attendance_percent"`
}

// TeacherAttendanceRow is one attendance record of a student enrolled in a
// section taught by the logged-in teacher.
type TeacherAttendanceRow struct {
	SectionID int `db:"section_id"`
	CourseOption
	TermName        string           `db:"term_name"`
	MeetingDays     string           `db:"meeting_days"`
	StartTime       string           `db:"start_time"`
	EndTime         string           `db:"end_time"`
	Room            string           `db:"room"`
	EnrollmentID    int              `db:"enrollment_id"`
	StudentID       int              `db:"student_id"`
	StudentUsername string           `db:"student_username"`
	StudentName     string           `db:"student_name"`
	SessionID       int              `db:"session_id"`
	SessionDate     *time.Time       `db:"session_date"`
	RecordID        int              `db:"record_id"`
	Status          AttendanceStatus `db:"status"`
}

// TeacherSummaryRow aggregates one (course, student) pair for the logged-in teacher.
type TeacherSummaryRow struct {
	CourseOption
	StudentID         int     `db:"student_id"`
	StudentName       string  `db:"student_name"`
	TotalSessions     int     `db:"total_sessions"`
	Absences          int     `db:"absences"`
	AttendancePercent float64 `db:"attendance_percent"`
}

func (r TeacherSummaryRow) Present() int {
	return r.TotalSessions - r.Absences
}

// CourseList returns every distinct course of rows in order of first appearance.
func CourseList[T Coursed](rows []T) []CourseOption {
	seen := make(map[CourseOption]struct{})
	list := make([]CourseOption, 0)
	for _, row := range rows {
		c := row.Course()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		list = append(list, c)
	}
	return list
}

// FilterByCourse keeps the rows of the given course code. An empty code keeps everything.
func FilterByCourse[T Coursed](rows []T, code string) []T {
	if code == "" {
		return rows
	}
	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		if row.Course().Code == code {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
