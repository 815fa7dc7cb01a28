package handler

import "net/http"

// Logout clears the session cookie and returns to the login page.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Warnf("logout: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
