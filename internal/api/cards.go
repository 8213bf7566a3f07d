package api

import (
	"context"
	"fmt"

	"autorevise/internal/csvimport"
	"autorevise/internal/models"
)

// GetCards lists all cards in a deck.
func (s *Session) GetCards(ctx context.Context, deckID int64) ([]models.Card, error) {
	var resp struct {
		Cards []models.Card `json:"cards"`
	}
	if err := s.get(ctx, fmt.Sprintf("/decks/%d/cards", deckID), &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// CreateCard adds a card to a deck.
func (s *Session) CreateCard(ctx context.Context, deckID int64, front, back string) error {
	body := map[string]string{
		"front_content": front,
		"back_content":  back,
	}
	return s.post(ctx, fmt.Sprintf("/decks/%d/cards", deckID), body, nil)
}

// UpdateCard replaces both faces of an existing card.
func (s *Session) UpdateCard(ctx context.Context, cardID int64, front, back string) error {
	body := map[string]string{
		"front_content": front,
		"back_content":  back,
	}
	return s.put(ctx, fmt.Sprintf("/cards/%d", cardID), body, nil)
}

// DeleteCard removes a card.
func (s *Session) DeleteCard(ctx context.Context, cardID int64) error {
	return s.delete(ctx, fmt.Sprintf("/cards/%d", cardID))
}

// UploadResult summarizes a bulk card upload.
type UploadResult struct {
	Inserted int `json:"inserted"`
	Failed   int `json:"failed"`
}

// UploadCardsBulk submits parsed CSV records as a single bulk-create
// request. Partial failure is reported, not retried.
func (s *Session) UploadCardsBulk(ctx context.Context, deckID int64, records []csvimport.Record) (*UploadResult, error) {
	body := map[string]interface{}{
		"cards": records,
	}
	var result UploadResult
	if err := s.post(ctx, fmt.Sprintf("/decks/%d/upload-cards", deckID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
