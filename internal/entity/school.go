package entity

import "time"

type Term struct {
	ID        int        `db:"id"`
	Name      string     `db:"name"`
	StartDate *time.Time `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
}

type Course struct {
	ID    int    `db:"id"`
	Code  string `db:"code"`
	Title string `db:"title"`
}

type Section struct {
	ID           int    `db:"id"`
	CourseID     int    `db:"course_id"`
	TermID       int    `db:"term_id"`
	InstructorID int    `db:"instructor_id"`
	MeetingDays  string `db:"meeting_days"`
	StartTime    string `db:"start_time"`
	EndTime      string `db:"end_time"`
	Room         string `db:"room"`
}

type Enrollment struct {
	ID        int `db:"id"`
	SectionID int `db:"section_id"`
	StudentID int `db:"student_id"`
}

type ClassSession struct {
	ID          int        `db:"id"`
	SectionID   int        `db:"section_id"`
	SessionDate *time.Time `db:"session_date"`
}

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

type AttendanceRecord struct {
	ID        int              `db:"id"`
	SessionID int              `db:"session_id"`
	StudentID int              `db:"student_id"`
	Status    AttendanceStatus `db:"status"`
}
