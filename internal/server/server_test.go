package server

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance/internal/auth"
	"attendance/internal/config"
	"attendance/internal/entity"
	"attendance/internal/handler"
	"attendance/internal/password"
	"attendance/internal/repository"
	"attendance/internal/templates"
)

type memUsers struct {
	users  []entity.User
	hashes map[int]string
}

func (m *memUsers) GetByUsernameAndRole(_ context.Context, username string, role entity.Role) (entity.User, error) {
	for _, u := range m.users {
		if u.Username == username && u.Role == role {
			return u, nil
		}
	}
	return entity.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int) (entity.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return entity.User{}, repository.ErrNotFound
}

func (m *memUsers) GetCredentials(_ context.Context, userID int) (entity.AuthCredentials, error) {
	h, ok := m.hashes[userID]
	if !ok {
		return entity.AuthCredentials{}, repository.ErrNotFound
	}
	return entity.AuthCredentials{UserID: userID, PasswordHash: h}, nil
}

type memAttendance struct{}

func sept(d int) *time.Time {
	t := time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC)
	return &t
}

var cs102 = entity.CourseOption{Code: "CS102", Title: "Data Structures"}

func (memAttendance) StudentRecords(_ context.Context, studentID int) ([]entity.StudentAttendanceRow, error) {
	rows := []entity.StudentAttendanceRow{}
	for i, st := range []entity.AttendanceStatus{entity.StatusPresent, entity.StatusAbsent, entity.StatusPresent} {
		rows = append(rows, entity.StudentAttendanceRow{SectionID: 10, CourseOption: cs102, SessionID: 101 + i, SessionDate: sept(1 + 2*i), Status: st})
	}
	return rows, nil
}

func (memAttendance) StudentSummary(_ context.Context, studentID int) ([]entity.StudentSummaryRow, error) {
	return []entity.StudentSummaryRow{{SectionID: 10, CourseOption: cs102, TotalSessions: 3, Attended: 2, AttendancePercent: 200.0 / 3}}, nil
}

func (memAttendance) TeacherRecords(_ context.Context, teacherID int) ([]entity.TeacherAttendanceRow, error) {
	return []entity.TeacherAttendanceRow{}, nil
}

func (memAttendance) TeacherSummary(_ context.Context, teacherID int) ([]entity.TeacherSummaryRow, error) {
	return []entity.TeacherSummaryRow{}, nil
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func newTestServer(t *testing.T, db handler.Pinger) *httptest.Server {
	t.Helper()

	jackHash, err := password.Hash("JackPass123")
	require.NoError(t, err)
	hannahHash, err := password.Hash("HannahPass123")
	require.NoError(t, err)

	users := &memUsers{
		users: []entity.User{
			{ID: 1001, Username: "han1001", Name: "Hannah Instructor", Role: entity.RoleTeacher},
			{ID: 1003, Username: "jac1003", Name: "Jack Student", Role: entity.RoleStudent},
		},
		hashes: map[int]string{1001: hannahHash, 1003: jackHash},
	}

	tmpl, err := templates.Parse()
	require.NoError(t, err)

	logger := log.New("test")
	logger.SetOutput(io.Discard)

	srv := httptest.NewServer(NewRouter(Deps{
		Auth:       auth.NewService(users, logger),
		Sessions:   auth.NewSessions(config.Session{HashKey: []byte("0123456789abcdef0123456789abcdef"), MaxAge: 3600}),
		Users:      users,
		Attendance: memAttendance{},
		DB:         db,
		Templates:  tmpl,
		Logger:     logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newClient keeps cookies and does not follow redirects.
func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func login(t *testing.T, c *http.Client, base, username, pass, role string) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(base+"/login", url.Values{"identifier": {username}, "password": {pass}, "role": {role}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func sessionCookie(c *http.Client, base string) *http.Cookie {
	u, _ := url.Parse(base)
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == auth.SessionName {
			return ck
		}
	}
	return nil
}

func TestRootRedirectsToLogin(t *testing.T) {
	srv := newTestServer(t, pinger{})
	resp, _ := get(t, newClient(t), srv.URL+"/")

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestDashboardsRequireLogin(t *testing.T) {
	srv := newTestServer(t, pinger{})
	c := newClient(t)

	for _, path := range []string{"/student", "/teacher"} {
		resp, _ := get(t, c, srv.URL+path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestFailedLogin(t *testing.T) {
	srv := newTestServer(t, pinger{})

	tests := []struct {
		name, username, pass, role string
	}{
		{"wrong password", "jac1003", "WrongPass", "student"},
		{"wrong role", "jac1003", "JackPass123", "teacher"},
		{"unknown user", "nobody", "JackPass123", "student"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t)
			resp, body := login(t, c, srv.URL, tt.username, tt.pass, tt.role)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, handler.LoginError)
			assert.Nil(t, sessionCookie(c, srv.URL))
		})
	}
}

func TestStudentFlow(t *testing.T) {
	srv := newTestServer(t, pinger{})
	c := newClient(t)

	resp, _ := login(t, c, srv.URL, "jac1003", "JackPass123", "student")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/student", resp.Header.Get("Location"))
	require.NotNil(t, sessionCookie(c, srv.URL))

	resp, body := get(t, c, srv.URL+"/student")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Jack Student")
	assert.Contains(t, body, "CS102")
	assert.Contains(t, body, "66.67")
	assert.Equal(t, 3, strings.Count(body, "CS102 · Data Structures</td>"))

	// a student cannot open the teacher dashboard
	resp, _ = get(t, c, srv.URL+"/teacher")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = get(t, c, srv.URL+"/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = get(t, c, srv.URL+"/student")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestTeacherFlow(t *testing.T) {
	srv := newTestServer(t, pinger{})
	c := newClient(t)

	resp, _ := login(t, c, srv.URL, "han1001", "HannahPass123", "teacher")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/teacher", resp.Header.Get("Location"))

	resp, body := get(t, c, srv.URL+"/teacher")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hannah Instructor")
	assert.Contains(t, body, "No records.")

	resp, _ = get(t, c, srv.URL+"/student")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginReplacesSession(t *testing.T) {
	srv := newTestServer(t, pinger{})
	c := newClient(t)

	login(t, c, srv.URL, "jac1003", "JackPass123", "student")
	login(t, c, srv.URL, "han1001", "HannahPass123", "teacher")

	resp, _ := get(t, c, srv.URL+"/teacher")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, c, srv.URL+"/student")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	resp, body := get(t, newClient(t), newTestServer(t, pinger{}).URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", body)

	resp, _ = get(t, newClient(t), newTestServer(t, pinger{err: errors.New("connection refused")}).URL+"/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	logger := log.New("test")
	logger.SetOutput(io.Discard)

	s := New(config.HTTP{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, http.NotFoundHandler(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
