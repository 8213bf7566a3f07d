package handlers

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"autorevise/internal/api"
	"autorevise/internal/session"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	api       *api.Client
	profiles  *session.ProfileStore
	templates *template.Template
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *api.Client, profiles *session.ProfileStore, templates *template.Template) *AuthHandler {
	return &AuthHandler{
		api:       client,
		profiles:  profiles,
		templates: templates,
	}
}

// Home redirects to the dashboard or the login page.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if h.profiles.IsLoggedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h.profiles.IsLoggedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := LoginViewData{
		Title:   "Login - AutoRevise",
		Success: r.URL.Query().Get("registered"),
	}
	if data.Success != "" {
		data.Success = "Account created. Please log in."
	}

	if err := h.templates.ExecuteTemplate(w, "login.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering login template", err)
	}
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	sess := h.api.Session(r)
	user, err := sess.Login(r.Context(), email, password)
	if err != nil {
		log.WithError(err).WithField("email", email).Warn("login failed")
		data := LoginViewData{
			Title: "Login - AutoRevise",
			Error: backendErrorMessage(err),
			Email: email,
		}
		if err := h.templates.ExecuteTemplate(w, "login.tmpl", data); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering login template", err)
		}
		return
	}

	// Relay the backend session cookie, then cache the profile.
	sess.ApplySetCookies(w)
	if err := h.profiles.Save(w, r, user); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error saving profile", err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if h.profiles.IsLoggedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := RegisterViewData{Title: "Register - AutoRevise"}
	if err := h.templates.ExecuteTemplate(w, "register.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering register template", err)
	}
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	sess := h.api.Session(r)
	user, err := sess.Register(r.Context(), username, email, password)
	if err != nil {
		data := RegisterViewData{
			Title:    "Register - AutoRevise",
			Error:    backendErrorMessage(err),
			Username: username,
			Email:    email,
		}
		if err := h.templates.ExecuteTemplate(w, "register.tmpl", data); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering register template", err)
		}
		return
	}

	// The backend logs the user in as part of registration.
	sess.ApplySetCookies(w)
	if err := h.profiles.Save(w, r, user); err != nil {
		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout clears the backend session and the cached profile.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := h.api.Session(r)
	if err := sess.Logout(r.Context()); err != nil {
		// Clear local state regardless; the backend session will expire.
		log.WithError(err).Warn("backend logout failed")
	}
	sess.ApplySetCookies(w)
	h.profiles.Clear(w, r)

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
