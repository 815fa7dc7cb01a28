package handler

import (
	"net/http"

	"github.com/pkg/errors"

	"attendance/internal/auth"
	"attendance/internal/entity"
	"attendance/internal/repository"
)

// dashboard holds what the student and teacher pages share.
type dashboard struct {
	users    UserFinder
	sessions SessionManager
	renderer
}

// currentUser loads the user of the request identity. When the session points
// at a user that no longer exists the session is dropped and the client is
// sent to the login page; ok is false whenever a response was already written.
func (d dashboard) currentUser(w http.ResponseWriter, r *http.Request) (entity.User, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return entity.User{}, false
	}

	user, err := d.users.GetByID(r.Context(), id.UserID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && user.Role != id.Role) {
		_ = d.sessions.Clear(w, r)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return entity.User{}, false
	}
	if err != nil {
		d.serverError(w, r, err)
		return entity.User{}, false
	}
	return user, true
}

type dashboardPage[R, S any] struct {
	Username       string
	FullName       string
	Records        []R
	Summary        []S
	CourseList     []entity.CourseOption
	SelectedCourse string
}
