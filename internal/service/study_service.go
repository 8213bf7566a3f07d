package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"autorevise/internal/models"
)

// Points awarded per self-assessed rating. These mirror the values the
// backend uses so the in-session total matches the server's tally.
var ratingPoints = map[string]int{
	"forgot": 5,
	"hard":   10,
	"good":   15,
	"easy":   20,
}

var (
	ErrNoSession     = errors.New("no active study session")
	ErrInvalidRating = errors.New("invalid rating")
	ErrNotRevealed   = errors.New("card has not been revealed")
	ErrWrongItemType = errors.New("action does not apply to the current item")
)

// PointsForRating returns the points a rating is worth, or false for an
// unknown rating.
func PointsForRating(rating string) (int, bool) {
	points, ok := ratingPoints[rating]
	return points, ok
}

// SessionStats accumulates per-session counters as items are answered.
type SessionStats struct {
	Completed int
	Forgot    int
	Hard      int
	Good      int
	Easy      int
	Correct   int
	Incorrect int
	Points    int
}

// Apply records a flashcard rating. Returns the points earned, or an
// error for a rating outside the known set.
func (s *SessionStats) Apply(rating string) (int, error) {
	points, ok := ratingPoints[rating]
	if !ok {
		return 0, ErrInvalidRating
	}

	switch rating {
	case "forgot":
		s.Forgot++
	case "hard":
		s.Hard++
	case "good":
		s.Good++
	case "easy":
		s.Easy++
	}

	s.Completed++
	s.Points += points
	return points, nil
}

// ApplyMCQ records a multiple-choice answer.
func (s *SessionStats) ApplyMCQ(correct bool, points int) {
	if correct {
		s.Correct++
	} else {
		s.Incorrect++
	}
	s.Completed++
	s.Points += points
}

// State is the progress of one visitor's study session. The service
// hands out value snapshots; all mutation happens inside the service
// under its lock.
type State struct {
	DeckID       int64
	Items        []models.StudyItem
	CurrentIndex int
	Revealed     bool
	Stats        SessionStats
	StartedAt    time.Time
	LastActive   time.Time
}

// Current returns the item under review, or nil when the session is done.
func (st State) Current() *models.StudyItem {
	if st.CurrentIndex >= len(st.Items) {
		return nil
	}
	return &st.Items[st.CurrentIndex]
}

// Done reports whether every item has been answered.
func (st State) Done() bool {
	return st.CurrentIndex >= len(st.Items)
}

// StudyService manages in-memory study sessions keyed by visitor ID.
type StudyService struct {
	mu       sync.Mutex
	sessions map[string]*State
}

// NewStudyService creates a new study service.
func NewStudyService() *StudyService {
	return &StudyService{
		sessions: make(map[string]*State),
	}
}

// Start creates a session for the visitor, replacing any existing one.
func (s *StudyService) Start(visitorID string, deckID int64, items []models.StudyItem) error {
	if len(items) == 0 {
		return errors.New("no items to study")
	}

	now := time.Now()
	state := &State{
		DeckID:     deckID,
		Items:      items,
		StartedAt:  now,
		LastActive: now,
	}

	s.mu.Lock()
	s.sessions[visitorID] = state
	s.mu.Unlock()

	return nil
}

// Get returns a snapshot of the visitor's active session.
func (s *StudyService) Get(visitorID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[visitorID]
	if !ok {
		return State{}, ErrNoSession
	}
	state.LastActive = time.Now()
	return *state, nil
}

// Delete removes the visitor's session.
func (s *StudyService) Delete(visitorID string) {
	s.mu.Lock()
	delete(s.sessions, visitorID)
	s.mu.Unlock()
}

// Reveal marks the current flashcard's answer as shown. Fails when the
// current item is a question instead of a card.
func (s *StudyService) Reveal(visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[visitorID]
	if !ok || state.Done() {
		return ErrNoSession
	}
	if state.Items[state.CurrentIndex].Type != models.ItemFlashcard {
		return ErrWrongItemType
	}
	state.LastActive = time.Now()
	state.Revealed = true
	return nil
}

// Rate applies a rating to the current flashcard and advances the
// session. The card must have been revealed first. Reports the points
// earned and whether the session is now complete.
func (s *StudyService) Rate(visitorID, rating string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[visitorID]
	if !ok || state.Done() {
		return 0, false, ErrNoSession
	}
	if state.Items[state.CurrentIndex].Type != models.ItemFlashcard {
		return 0, false, ErrWrongItemType
	}
	if !state.Revealed {
		return 0, false, ErrNotRevealed
	}

	points, err := state.Stats.Apply(rating)
	if err != nil {
		return 0, false, err
	}
	state.LastActive = time.Now()
	state.CurrentIndex++
	state.Revealed = false
	return points, state.Done(), nil
}

// AnswerMCQ records a multiple-choice result, advances the session,
// and returns the updated snapshot.
func (s *StudyService) AnswerMCQ(visitorID string, correct bool, points int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[visitorID]
	if !ok || state.Done() {
		return State{}, ErrNoSession
	}
	if state.Items[state.CurrentIndex].Type != models.ItemMCQ {
		return State{}, ErrWrongItemType
	}

	state.Stats.ApplyMCQ(correct, points)
	state.LastActive = time.Now()
	state.CurrentIndex++
	state.Revealed = false
	return *state, nil
}

// CleanupStale removes sessions idle for longer than maxIdle. Returns
// the number removed.
func (s *StudyService) CleanupStale(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxIdle)
	for id, state := range s.sessions {
		if state.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// BuildItems wraps cards and questions as study items, shuffling the
// questions into the card sequence when both are present.
func BuildItems(cards []models.Card, mcqs []models.MCQ) []models.StudyItem {
	items := make([]models.StudyItem, 0, len(cards)+len(mcqs))
	for _, card := range cards {
		items = append(items, models.StudyItem{Type: models.ItemFlashcard, Card: card})
	}
	for _, mcq := range mcqs {
		items = append(items, models.StudyItem{Type: models.ItemMCQ, MCQ: mcq})
	}

	if len(cards) > 0 && len(mcqs) > 0 {
		rand.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}
	return items
}
