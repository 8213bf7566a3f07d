package api

import (
	"context"
	"fmt"

	"autorevise/internal/models"
)

// GetMCQSession fetches up to limit multiple-choice questions for a
// deck. A deckID of 0 draws from all of the user's decks.
func (s *Session) GetMCQSession(ctx context.Context, deckID int64, limit int) ([]models.MCQ, error) {
	path := fmt.Sprintf("/mcq/study-session?limit=%d", limit)
	if deckID != 0 {
		path = fmt.Sprintf("/mcq/study-session?deck_id=%d&limit=%d", deckID, limit)
	}
	var resp struct {
		MCQs []models.MCQ `json:"mcqs"`
	}
	if err := s.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.MCQs, nil
}

// CheckMCQ submits an answer letter (A-D) and returns the verdict.
func (s *Session) CheckMCQ(ctx context.Context, mcqID int64, answer string) (*models.MCQResult, error) {
	body := map[string]string{
		"answer": answer,
	}
	var result models.MCQResult
	if err := s.post(ctx, fmt.Sprintf("/mcq/%d/check", mcqID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
