package handler

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"attendance/internal/auth"
	"attendance/internal/entity"
)

// LoginError is shown for every failed login, whatever field was wrong.
const LoginError = "Invalid username, password, or role"

type LoginHandler struct {
	auth     Authenticator
	sessions SessionManager
	validate *validator.Validate
	renderer
}

func NewLoginHandler(a Authenticator, s SessionManager, tmpl *template.Template, logger *log.Logger) *LoginHandler {
	return &LoginHandler{
		auth:     a,
		sessions: s,
		validate: validator.New(),
		renderer: renderer{tmpl: tmpl, logger: logger},
	}
}

type loginForm struct {
	Identifier string `validate:"required,max=100"`
	Password   string `validate:"required,max=200"`
	Role       string `validate:"required,oneof=student teacher"`
}

type loginPage struct {
	Error      string
	Identifier string
	Role       string
}

func (h *LoginHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.html(w, http.StatusOK, "login.html", loginPage{Role: string(entity.RoleStudent)})
}

func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form data", http.StatusBadRequest)
		return
	}

	form := loginForm{
		Identifier: strings.TrimSpace(r.PostFormValue("identifier")),
		Password:   strings.TrimSpace(r.PostFormValue("password")),
		Role:       strings.TrimSpace(r.PostFormValue("role")),
	}
	failed := loginPage{Error: LoginError, Identifier: form.Identifier, Role: form.Role}

	if err := h.validate.Struct(form); err != nil {
		h.logger.Infof("login rejected for %q: %v", form.Identifier, err)
		h.html(w, http.StatusOK, "login.html", failed)
		return
	}

	user, err := h.auth.Login(r.Context(), form.Identifier, form.Password, entity.Role(form.Role))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.logger.Infof("login failed for %q (%s)", form.Identifier, form.Role)
		h.html(w, http.StatusOK, "login.html", failed)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := h.sessions.Start(w, r, auth.Identity{UserID: user.ID, Role: user.Role}); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.logger.Infof("login: %s (id %d, role %s)", user.Username, user.ID, user.Role)
	http.Redirect(w, r, user.Role.DashboardPath(), http.StatusSeeOther)
}
