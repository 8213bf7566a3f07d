package handlers

import (
	"html/template"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"autorevise/internal/api"
	"autorevise/internal/models"
	"autorevise/internal/session"
)

// AchievementsHandler handles the achievements page
type AchievementsHandler struct {
	api       *api.Client
	profiles  *session.ProfileStore
	templates *template.Template
}

// NewAchievementsHandler creates a new achievements handler
func NewAchievementsHandler(client *api.Client, profiles *session.ProfileStore, templates *template.Template) *AchievementsHandler {
	return &AchievementsHandler{
		api:       client,
		profiles:  profiles,
		templates: templates,
	}
}

// filterAchievements applies the tri-state filter to the full list.
// Counts always reflect the full list, not the filtered view.
func filterAchievements(all []models.Achievement, filter string) ([]AchievementView, int, int) {
	earned, locked := 0, 0
	views := make([]AchievementView, 0, len(all))
	for _, a := range all {
		isEarned := a.Earned.Bool()
		if isEarned {
			earned++
		} else {
			locked++
		}

		switch filter {
		case "earned":
			if !isEarned {
				continue
			}
		case "locked":
			if isEarned {
				continue
			}
		}
		views = append(views, AchievementView{Achievement: a, IsEarned: isEarned})
	}
	return views, earned, locked
}

// Show renders the achievements page with the points and streak
// summary. The ?filter= query selects all, earned, or locked badges.
func (h *AchievementsHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	filter := r.URL.Query().Get("filter")
	if filter == "unlocked" {
		filter = "earned"
	}
	if filter != "earned" && filter != "locked" {
		filter = "all"
	}

	sess := h.api.Session(r)

	var (
		wg      sync.WaitGroup
		list    *api.AchievementList
		stats   *models.Stats
		listErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		list, listErr = sess.GetAchievements(r.Context())
	}()
	go func() {
		defer wg.Done()
		s, err := sess.GetStats(r.Context())
		if err != nil {
			log.WithError(err).Warn("stats unavailable")
			return
		}
		stats = s
	}()
	wg.Wait()

	if listErr != nil {
		if handleAuthError(w, r, h.profiles, listErr) {
			return
		}
		log.WithError(listErr).Error("failed to load achievements")
		data := AchievementsViewData{
			Title:  "Achievements - AutoRevise",
			User:   user,
			Stats:  stats,
			Filter: filter,
			Error:  backendErrorMessage(listErr),
		}
		if err := h.templates.ExecuteTemplate(w, "achievements.tmpl", data); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering achievements template", err)
		}
		return
	}

	views, earned, locked := filterAchievements(list.Achievements, filter)

	data := AchievementsViewData{
		Title:        "Achievements - AutoRevise",
		User:         user,
		Achievements: views,
		Stats:        stats,
		Filter:       filter,
		EarnedCount:  earned,
		LockedCount:  locked,
		TotalCount:   len(list.Achievements),
	}
	if err := h.templates.ExecuteTemplate(w, "achievements.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering achievements template", err)
	}
}
