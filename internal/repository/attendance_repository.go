package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"attendance/internal/entity"
)

// AttendanceRepository runs the read-only dashboard queries.
type AttendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const studentRecordsQuery = `
	SELECT
		e.id                        AS enrollment_id,
		s.id                        AS section_id,
		c.code                      AS course_code,
		c.title                     AS course_title,
		t.name                      AS term_name,
		t.start_date                AS term_start,
		t.end_date                  AS term_end,
		COALESCE(s.meeting_days, '') AS meeting_days,
		COALESCE(s.start_time, '')   AS start_time,
		COALESCE(s.end_time, '')     AS end_time,
		COALESCE(s.room, '')         AS room,
		cs.id                       AS session_id,
		cs.session_date             AS session_date,
		a.id                        AS record_id,
		COALESCE(a.status, '')      AS status
	FROM enrollments e
	JOIN sections s ON e.section_id = s.id
	JOIN courses c ON s.course_id = c.id
	JOIN terms t ON s.term_id = t.id
	JOIN class_sessions cs ON cs.section_id = s.id
	JOIN attendance_records a ON a.session_id = cs.id AND a.student_id = $1
	WHERE e.student_id = $1
	ORDER BY c.code, s.id, cs.session_date, cs.id
`

// StudentRecords lists every attendance record of the student in the sections they are enrolled in.
func (r *AttendanceRepository) StudentRecords(ctx context.Context, studentID int) ([]entity.StudentAttendanceRow, error) {
	rows := make([]entity.StudentAttendanceRow, 0)
	if err := r.db.SelectContext(ctx, &rows, studentRecordsQuery, studentID); err != nil {
		return nil, errors.Wrapf(err, "attendance records of student %d", studentID)
	}
	return rows, nil
}

const studentSummaryQuery = `
	SELECT
		s.id    AS section_id,
		c.code  AS course_code,
		c.title AS course_title,
		COUNT(cs.id) AS total_sessions,
		SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) AS attended,
		AVG(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100 AS attendance_percent
	FROM enrollments e
	JOIN sections s ON e.section_id = s.id
	JOIN courses c ON s.course_id = c.id
	JOIN class_sessions cs ON cs.section_id = s.id
	JOIN attendance_records a ON a.session_id = cs.id AND a.student_id = e.student_id
	WHERE e.student_id = $1
	GROUP BY s.id, c.code, c.title
	ORDER BY c.code, s.id
`

// StudentSummary aggregates the student's attendance per section.
func (r *AttendanceRepository) StudentSummary(ctx context.Context, studentID int) ([]entity.StudentSummaryRow, error) {
	rows := make([]entity.StudentSummaryRow, 0)
	if err := r.db.SelectContext(ctx, &rows, studentSummaryQuery, studentID); err != nil {
		return nil, errors.Wrapf(err, "attendance summary of student %d", studentID)
	}
	return rows, nil
}

const teacherRecordsQuery = `
	SELECT
		s.id                        AS section_id,
		c.code                      AS course_code,
		c.title                     AS course_title,
		t.name                      AS term_name,
		COALESCE(s.meeting_days, '') AS meeting_days,
		COALESCE(s.start_time, '')   AS start_time,
		COALESCE(s.end_time, '')     AS end_time,
		COALESCE(s.room, '')         AS room,
		e.id                        AS enrollment_id,
		u.id                        AS student_id,
		u.username                  AS student_username,
		u.name                      AS student_name,
		cs.id                       AS session_id,
		cs.session_date             AS session_date,
		a.id                        AS record_id,
		COALESCE(a.status, '')      AS status
	FROM sections s
	JOIN courses c ON s.course_id = c.id
	JOIN terms t ON s.term_id = t.id
	JOIN enrollments e ON e.section_id = s.id
	JOIN users u ON e.student_id = u.id
	JOIN class_sessions cs ON cs.section_id = s.id
	JOIN attendance_records a ON a.session_id = cs.id AND a.student_id = u.id
	WHERE s.instructor_id = $1
	ORDER BY c.code, u.name, cs.session_date, cs.id
`

// TeacherRecords lists every attendance record in the sections the teacher instructs.
func (r *AttendanceRepository) TeacherRecords(ctx context.Context, teacherID int) ([]entity.TeacherAttendanceRow, error) {
	rows := make([]entity.TeacherAttendanceRow, 0)
	if err := r.db.SelectContext(ctx, &rows, teacherRecordsQuery, teacherID); err != nil {
		return nil, errors.Wrapf(err, "attendance records of teacher %d", teacherID)
	}
	return rows, nil
}

const teacherSummaryQuery = `
	SELECT
		c.code  AS course_code,
		c.title AS course_title,
		u.id    AS student_id,
		u.name  AS student_name,
		COUNT(a.id) AS total_sessions,
		SUM(CASE WHEN a.status = 'absent' THEN 1 ELSE 0 END) AS absences,
		SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100.0 / COUNT(a.id) AS attendance_percent
	FROM courses c
	JOIN sections s ON s.course_id = c.id
	JOIN enrollments e ON e.section_id = s.id
	JOIN users u ON u.id = e.student_id
	JOIN class_sessions cs ON cs.section_id = s.id
	JOIN attendance_records a ON a.session_id = cs.id AND a.student_id = u.id
	WHERE s.instructor_id = $1
	GROUP BY c.id, c.code, c.title, u.id, u.name
	ORDER BY c.code, u.name
`

// TeacherSummary aggregates attendance per (course, student) across the teacher's sections.
func (r *AttendanceRepository) TeacherSummary(ctx context.Context, teacherID int) ([]entity.TeacherSummaryRow, error) {
	rows := make([]entity.TeacherSummaryRow, 0)
	if err := r.db.SelectContext(ctx, &rows, teacherSummaryQuery, teacherID); err != nil {
		return nil, errors.Wrapf(err, "attendance summary of teacher %d", teacherID)
	}
	return rows, nil
}
