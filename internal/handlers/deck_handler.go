package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"autorevise/internal/api"
	"autorevise/internal/csvimport"
	"autorevise/internal/models"
	"autorevise/internal/session"
)

// pendingImport holds parsed CSV rows between the preview and confirm
// steps of an import.
type pendingImport struct {
	DeckID    int64
	Records   []csvimport.Record
	CreatedAt time.Time
}

// DeckHandler handles deck detail, card CRUD, and CSV import requests
type DeckHandler struct {
	api       *api.Client
	profiles  *session.ProfileStore
	templates *template.Template

	mu      sync.Mutex
	pending map[string]*pendingImport
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(client *api.Client, profiles *session.ProfileStore, templates *template.Template) *DeckHandler {
	return &DeckHandler{
		api:       client,
		profiles:  profiles,
		templates: templates,
		pending:   make(map[string]*pendingImport),
	}
}

func (h *DeckHandler) deckID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("deckId"), 10, 64)
}

// ViewDeck renders a deck with its cards and per-card status.
func (h *DeckHandler) ViewDeck(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	deckID, err := h.deckID(r)
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}

	sess := h.api.Session(r)

	var (
		wg       sync.WaitGroup
		deck     *models.Deck
		cards    []models.Card
		deckErr  error
		cardsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		deck, deckErr = sess.GetDeck(r.Context(), deckID)
	}()
	go func() {
		defer wg.Done()
		cards, cardsErr = sess.GetCards(r.Context(), deckID)
	}()
	wg.Wait()

	if handleAuthError(w, r, h.profiles, deckErr) || handleAuthError(w, r, h.profiles, cardsErr) {
		return
	}
	if deckErr != nil {
		var apiErr *api.Error
		if errors.As(deckErr, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(deckErr), "Error loading deck", deckErr)
		return
	}

	data := DeckViewData{
		Title: deck.DeckName + " - AutoRevise",
		User:  user,
		Deck:  deck,
		Cards: newCardViews(cards),
	}
	if cardsErr != nil {
		log.WithError(cardsErr).Error("failed to load cards")
		data.Error = backendErrorMessage(cardsErr)
	}

	if err := h.templates.ExecuteTemplate(w, "deck.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering deck template", err)
	}
}

// AddCard handles new-card form submission
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := h.deckID(r)
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	front := r.FormValue("front_content")
	back := r.FormValue("back_content")
	if front == "" || back == "" {
		http.Error(w, "Both sides of the card are required", http.StatusBadRequest)
		return
	}

	sess := h.api.Session(r)
	if err := sess.CreateCard(r.Context(), deckID, front, back); err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error creating card", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/decks/%d", deckID), http.StatusSeeOther)
}

// UpdateCard handles card edit form submission
func (h *DeckHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := h.deckID(r)
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}
	cardID, err := strconv.ParseInt(r.PathValue("cardId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid card ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	sess := h.api.Session(r)
	if err := sess.UpdateCard(r.Context(), cardID, r.FormValue("front_content"), r.FormValue("back_content")); err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error updating card", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/decks/%d", deckID), http.StatusSeeOther)
}

// DeleteCard removes a card from a deck
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := h.deckID(r)
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}
	cardID, err := strconv.ParseInt(r.PathValue("cardId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid card ID", http.StatusBadRequest)
		return
	}

	sess := h.api.Session(r)
	if err := sess.DeleteCard(r.Context(), cardID); err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error deleting card", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/decks/%d", deckID), http.StatusSeeOther)
}

// UploadCSV parses an uploaded CSV file and renders the import preview.
// Nothing is sent to the backend until the user confirms.
func (h *DeckHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	deckID, err := h.deckID(r)
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, csvimport.MaxUploadSize)
	if err := r.ParseMultipartForm(csvimport.MaxUploadSize); err != nil {
		http.Error(w, "File is too large (max 5MB)", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		http.Error(w, "No file was uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := csvimport.ValidateUpload(header.Filename, header.Size); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error reading upload", err)
		return
	}

	records, err := csvimport.Parse(string(content))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(records) == 0 {
		http.Error(w, "No valid cards found in the file", http.StatusBadRequest)
		return
	}

	sess := h.api.Session(r)
	deck, err := sess.GetDeck(r.Context(), deckID)
	if err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error loading deck", err)
		return
	}

	key := uuid.New().String()
	h.mu.Lock()
	h.pending[key] = &pendingImport{DeckID: deckID, Records: records, CreatedAt: time.Now()}
	h.mu.Unlock()

	preview := records
	if len(preview) > csvimport.PreviewLimit {
		preview = preview[:csvimport.PreviewLimit]
	}

	data := ImportPreviewViewData{
		Title:     "Import Preview - AutoRevise",
		User:      user,
		Deck:      deck,
		Preview:   preview,
		Total:     len(records),
		ImportKey: key,
	}
	if err := h.templates.ExecuteTemplate(w, "import_preview.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error rendering import preview", err)
	}
}

// ConfirmImport sends a previewed import to the backend in one bulk call.
func (h *DeckHandler) ConfirmImport(w http.ResponseWriter, r *http.Request) {
	deckID, err := h.deckID(r)
	if err != nil {
		http.Error(w, "Invalid deck ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	key := r.FormValue("import_key")
	h.mu.Lock()
	imp, ok := h.pending[key]
	if ok {
		delete(h.pending, key)
	}
	h.mu.Unlock()

	if !ok || imp.DeckID != deckID {
		http.Error(w, "Import expired. Please upload the file again.", http.StatusGone)
		return
	}

	sess := h.api.Session(r)
	result, err := sess.UploadCardsBulk(r.Context(), deckID, imp.Records)
	if err != nil {
		if handleAuthError(w, r, h.profiles, err) {
			return
		}
		respondWithError(w, http.StatusBadGateway, backendErrorMessage(err), "Error importing cards", err)
		return
	}

	log.WithFields(log.Fields{
		"deck_id":  deckID,
		"inserted": result.Inserted,
		"failed":   result.Failed,
	}).Info("csv import complete")

	http.Redirect(w, r, fmt.Sprintf("/decks/%d", deckID), http.StatusSeeOther)
}

// CleanupPendingImports drops previews never confirmed. Returns the
// number removed.
func (h *DeckHandler) CleanupPendingImports(maxAge time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for key, imp := range h.pending {
		if imp.CreatedAt.Before(cutoff) {
			delete(h.pending, key)
			removed++
		}
	}
	return removed
}
