package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"autorevise/internal/api"
	"autorevise/internal/models"
	"autorevise/internal/service"
	"autorevise/internal/session"
)

// defaultMCQCount is how many questions a mixed session pulls in.
const defaultMCQCount = 5

// StudyHandler handles study session HTTP requests
type StudyHandler struct {
	api       *api.Client
	profiles  *session.ProfileStore
	study     *service.StudyService
	templates *template.Template
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(client *api.Client, profiles *session.ProfileStore, study *service.StudyService, templates *template.Template) *StudyHandler {
	return &StudyHandler{
		api:       client,
		profiles:  profiles,
		study:     study,
		templates: templates,
	}
}

// StartStudy fetches due cards and begins a session. A deck_id form
// value scopes the session to one deck; mix=mcq interleaves questions.
func (h *StudyHandler) StartStudy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	var deckID int64
	if v := r.FormValue("deck_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid deck ID", http.StatusBadRequest)
			return
		}
		deckID = id
	}

	sess := h.api.Session(r)

	var (
		cards []models.Card
		err   error
	)
	if deckID != 0 {
		cards, err = sess.GetDeckStudySession(r.Context(), deckID)
	} else {
		cards, err = sess.GetStudySession(r.Context())
	}
	if err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error fetching study session", err)
		return
	}

	var mcqs []models.MCQ
	if r.FormValue("mix") == "mcq" {
		mcqs, err = sess.GetMCQSession(r.Context(), deckID, defaultMCQCount)
		if err != nil {
			// A session without questions is still worth having.
			log.WithError(err).Warn("mcq session unavailable")
			mcqs = nil
		}
	}

	items := service.BuildItems(cards, mcqs)
	if len(items) == 0 {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	visitorID := session.VisitorID(w, r)
	if err := h.study.Start(visitorID, deckID, items); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error starting study session", err)
		return
	}

	http.Redirect(w, r, "/study", http.StatusSeeOther)
}

// ShowStudy renders the current study item.
func (h *StudyHandler) ShowStudy(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	visitorID := session.VisitorID(w, r)

	state, err := h.study.Get(visitorID)
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if state.Done() {
		http.Redirect(w, r, "/study/results", http.StatusSeeOther)
		return
	}

	item := state.Current()

	if item.Type == models.ItemMCQ {
		data := MCQViewData{
			Title:        "Study - AutoRevise",
			User:         user,
			MCQ:          &item.MCQ,
			CurrentIndex: state.CurrentIndex + 1,
			TotalItems:   len(state.Items),
			Points:       state.Stats.Points,
		}
		if err := h.templates.ExecuteTemplate(w, "study_mcq.tmpl", data); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering mcq template", err)
		}
		return
	}

	data := StudyViewData{
		Title:        "Study - AutoRevise",
		User:         user,
		Item:         item,
		FrontHTML:    SafeCardHTML(item.Card.FrontContent),
		BackHTML:     SafeCardHTML(item.Card.BackContent),
		Revealed:     state.Revealed,
		CurrentIndex: state.CurrentIndex + 1,
		TotalItems:   len(state.Items),
		Points:       state.Stats.Points,
	}
	if err := h.templates.ExecuteTemplate(w, "study.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering study template", err)
	}
}

// Reveal shows the answer side of the current card.
func (h *StudyHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	visitorID := session.VisitorID(w, r)
	if err := h.study.Reveal(visitorID); err != nil {
		if errors.Is(err, service.ErrWrongItemType) {
			http.Redirect(w, r, "/study", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/study", http.StatusSeeOther)
}

// Rate submits the rating for the current card to the backend and
// advances the session.
func (h *StudyHandler) Rate(w http.ResponseWriter, r *http.Request) {
	visitorID := session.VisitorID(w, r)

	state, err := h.study.Get(visitorID)
	if err != nil || state.Done() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	rating := r.FormValue("rating")
	if _, ok := service.PointsForRating(rating); !ok {
		http.Error(w, "Invalid rating", http.StatusBadRequest)
		return
	}

	// Ratings apply to flashcards only, and the answer must be on
	// screen before one counts.
	item := state.Current()
	if item.Type != models.ItemFlashcard || !state.Revealed {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	sess := h.api.Session(r)
	if _, err := sess.SubmitReview(r.Context(), item.Card.CardID, rating); err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error submitting review", err)
		return
	}

	_, done, err := h.study.Rate(visitorID, rating)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		// A concurrent request advanced the session first.
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	if done {
		http.Redirect(w, r, "/study/results", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/study", http.StatusSeeOther)
}

// AnswerMCQ checks a multiple-choice answer with the backend, records
// the result, and renders the feedback page.
func (h *StudyHandler) AnswerMCQ(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	visitorID := session.VisitorID(w, r)

	state, err := h.study.Get(visitorID)
	if err != nil || state.Done() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	item := state.Current()
	if item.Type != models.ItemMCQ {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	answer := r.FormValue("answer")
	if answer == "" {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	sess := h.api.Session(r)
	result, err := sess.CheckMCQ(r.Context(), item.MCQ.MCQID, answer)
	if err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error checking answer", err)
		return
	}

	updated, err := h.study.AnswerMCQ(visitorID, result.Correct, result.PointsEarned)
	if err != nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	data := MCQViewData{
		Title:        "Study - AutoRevise",
		User:         user,
		MCQ:          &item.MCQ,
		Result:       result,
		CurrentIndex: state.CurrentIndex + 1,
		TotalItems:   len(state.Items),
		Points:       updated.Stats.Points,
	}
	if err := h.templates.ExecuteTemplate(w, "study_mcq.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering mcq template", err)
	}
}

// Results renders the session summary and ends the session. New
// achievements earned during the session are surfaced here.
func (h *StudyHandler) Results(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	visitorID := session.VisitorID(w, r)

	state, err := h.study.Get(visitorID)
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	sess := h.api.Session(r)
	newAchievements, err := sess.CheckAchievements(r.Context())
	if err != nil {
		log.WithError(err).Warn("achievement check failed")
		newAchievements = nil
	}

	data := StudyResultsViewData{
		Title:           "Session Complete - AutoRevise",
		User:            user,
		Stats:           state.Stats,
		Duration:        time.Since(state.StartedAt).Round(time.Second).String(),
		NewAchievements: newAchievements,
	}

	h.study.Delete(visitorID)

	if err := h.templates.ExecuteTemplate(w, "study_results.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering results template", err)
	}
}
