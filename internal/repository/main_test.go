package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"attendance/internal/config"
	"attendance/internal/database"
)

// openTestDB connects to TEST_DATABASE_URL, migrates it and empties every table.
// Tests are skipped when the variable is not set.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Open(context.Background(), config.Database{URL: url, MaxOpenConns: 4, MaxIdleConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mg, err := database.NewMigrator(db.DB)
	require.NoError(t, err)
	require.NoError(t, mg.Up())

	_, err = db.Exec(`TRUNCATE attendance_records, class_sessions, enrollments, sections,
		courses, terms, auth_credentials, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func mustExec(t *testing.T, db *sqlx.DB, query string, args ...interface{}) {
	t.Helper()
	_, err := db.Exec(query, args...)
	require.NoError(t, err)
}

// seedSchool loads two teachers, two students, two terms, three courses and
// their sections, sessions and attendance.
//
//	han1001 teaches CS102 section 10 (3 sessions) and MA201 section 20 (2 sessions)
//	ian1002 teaches CS201 section 30 (2 sessions)
//	jac1003 is in sections 10, 20, 30; kim1004 is in section 10
func seedSchool(t *testing.T, db *sqlx.DB) {
	t.Helper()

	mustExec(t, db, `INSERT INTO users (id, username, name, role) VALUES
		(1001, 'han1001', 'Hannah Instructor', 'teacher'),
		(1002, 'ian1002', 'Ian Instructor', 'teacher'),
		(1003, 'jac1003', 'Jack Student', 'student'),
		(1004, 'kim1004', 'Alice Kim', 'student')`)
	mustExec(t, db, `INSERT INTO terms (id, name, start_date, end_date) VALUES
		(1, 'Fall 2025', '2025-09-01', '2025-12-19'),
		(2, 'Spring 2026', NULL, NULL)`)
	mustExec(t, db, `INSERT INTO courses (id, code, title) VALUES
		(1, 'CS102', 'Data Structures'),
		(2, 'MA201', 'Linear Algebra'),
		(3, 'CS201', 'Algorithms')`)
	mustExec(t, db, `INSERT INTO sections (id, course_id, term_id, instructor_id, meeting_days, start_time, end_time, room) VALUES
		(10, 1, 1, 1001, 'MWF', '09:00', '09:50', 'B-201'),
		(20, 2, 1, 1001, 'TR', '13:00', '14:15', NULL),
		(30, 3, 2, 1002, NULL, NULL, NULL, NULL)`)
	mustExec(t, db, `INSERT INTO enrollments (section_id, student_id) VALUES
		(10, 1003), (20, 1003), (30, 1003), (10, 1004)`)
	mustExec(t, db, `INSERT INTO class_sessions (id, section_id, session_date) VALUES
		(101, 10, '2025-09-01'), (102, 10, '2025-09-03'), (103, 10, '2025-09-05'),
		(201, 20, '2025-09-02'), (202, 20, '2025-09-04'),
		(301, 30, '2026-01-12'), (302, 30, '2026-01-14')`)
	mustExec(t, db, `INSERT INTO attendance_records (session_id, student_id, status) VALUES
		(101, 1003, 'present'), (102, 1003, 'absent'), (103, 1003, 'present'),
		(101, 1004, 'present'), (102, 1004, 'present'), (103, 1004, 'absent'),
		(201, 1003, 'absent'), (202, 1003, 'absent'),
		(301, 1003, 'present'), (302, 1003, 'present')`)
}
