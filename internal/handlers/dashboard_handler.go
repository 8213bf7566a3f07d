package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"

	"autorevise/internal/api"
	"autorevise/internal/models"
	"autorevise/internal/session"
)

// studyLogDays is how many days of recent activity the dashboard shows.
const studyLogDays = 7

// DashboardHandler handles the dashboard and deck-list HTTP requests
type DashboardHandler struct {
	api       *api.Client
	profiles  *session.ProfileStore
	templates *template.Template
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(client *api.Client, profiles *session.ProfileStore, templates *template.Template) *DashboardHandler {
	return &DashboardHandler{
		api:       client,
		profiles:  profiles,
		templates: templates,
	}
}

// handleAuthError clears the cached profile and redirects to login when
// the backend rejected the session. Returns true if it handled the error.
func handleAuthError(w http.ResponseWriter, r *http.Request, profiles *session.ProfileStore, err error) bool {
	if !api.IsAuthError(err) {
		return false
	}
	profiles.Clear(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// Dashboard renders the deck list, stats panel, and recent activity.
// The cached profile is re-checked against the backend first, then
// decks and stats load in parallel; the study log is best effort.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sess := h.api.Session(r)

	// Session check: refresh the cached profile. A 401 means the
	// backend session expired; any other failure keeps the stale copy.
	if fresh, err := sess.Me(r.Context()); err == nil {
		user = fresh
		if err := h.profiles.Save(w, r, fresh); err != nil {
			log.WithError(err).Warn("could not refresh cached profile")
		}
	} else {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		log.WithError(err).Warn("session check failed, using cached profile")
	}

	var (
		wg       sync.WaitGroup
		decks    []models.Deck
		stats    *models.Stats
		studyLog []models.StudyLogEntry
		decksErr error
		statsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		decks, decksErr = sess.GetDecks(r.Context())
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = sess.GetStats(r.Context())
	}()
	go func() {
		defer wg.Done()
		entries, err := sess.GetStudyLog(r.Context(), studyLogDays)
		if err != nil {
			log.WithError(err).Warn("study log unavailable")
			return
		}
		studyLog = entries
	}()
	wg.Wait()

	if handleAuthError(w, r, h.profiles, decksErr) || handleAuthError(w, r, h.profiles, statsErr) {
		return
	}

	data := DashboardViewData{
		Title:    "Dashboard - AutoRevise",
		User:     user,
		Decks:    decks,
		Stats:    stats,
		StudyLog: studyLog,
	}
	if decksErr != nil {
		log.WithError(decksErr).Error("failed to load decks")
		data.Error = backendErrorMessage(decksErr)
	} else if statsErr != nil {
		log.WithError(statsErr).Error("failed to load stats")
		data.Error = backendErrorMessage(statsErr)
	}

	if err := h.templates.ExecuteTemplate(w, "dashboard.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering dashboard template", err)
	}
}

// CreateDeck handles new-deck form submission
func (h *DashboardHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	name := r.FormValue("deck_name")
	description := r.FormValue("description")
	if name == "" {
		http.Error(w, "Deck name is required", http.StatusBadRequest)
		return
	}

	sess := h.api.Session(r)
	if err := sess.CreateDeck(r.Context(), name, description); err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error creating deck", err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// DeleteDeck deletes a deck and all of its cards
func (h *DashboardHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := strconv.ParseInt(r.PathValue("deckId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}

	sess := h.api.Session(r)
	if err := sess.DeleteDeck(r.Context(), deckID); err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error deleting deck", err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
