package api

import (
	"context"
	"fmt"

	"autorevise/internal/models"
)

// GetStudySession fetches the cards due for review across all decks.
func (s *Session) GetStudySession(ctx context.Context) ([]models.Card, error) {
	return s.studySession(ctx, "/study-session")
}

// GetDeckStudySession fetches the cards due for review in one deck.
func (s *Session) GetDeckStudySession(ctx context.Context, deckID int64) ([]models.Card, error) {
	return s.studySession(ctx, fmt.Sprintf("/study-session?deck_id=%d", deckID))
}

func (s *Session) studySession(ctx context.Context, path string) ([]models.Card, error) {
	var resp struct {
		Cards []models.Card `json:"cards"`
	}
	if err := s.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// ReviewResult is the backend's answer to a submitted rating.
type ReviewResult struct {
	NextReviewDate string `json:"next_review_date"`
	Interval       int    `json:"interval"`
	PointsEarned   int    `json:"points_earned"`
}

// SubmitReview forwards a rating label for a card. The scheduling
// update happens entirely on the backend.
func (s *Session) SubmitReview(ctx context.Context, cardID int64, rating string) (*ReviewResult, error) {
	body := map[string]interface{}{
		"card_id": cardID,
		"rating":  rating,
	}
	var result ReviewResult
	if err := s.post(ctx, "/submit-review", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
