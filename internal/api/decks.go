package api

import (
	"context"
	"fmt"

	"autorevise/internal/models"
)

// GetDecks lists the user's decks.
func (s *Session) GetDecks(ctx context.Context) ([]models.Deck, error) {
	var resp struct {
		Decks []models.Deck `json:"decks"`
	}
	if err := s.get(ctx, "/decks", &resp); err != nil {
		return nil, err
	}
	return resp.Decks, nil
}

// GetDeck fetches one deck by id.
func (s *Session) GetDeck(ctx context.Context, deckID int64) (*models.Deck, error) {
	path := fmt.Sprintf("/decks/%d", deckID)
	var resp struct {
		Deck *models.Deck `json:"deck"`
	}
	if err := s.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Deck == nil || resp.Deck.DeckID == 0 {
		return nil, &DecodeError{Endpoint: path, Reason: "missing deck in response"}
	}
	return resp.Deck, nil
}

// CreateDeck creates a deck with the given name and description.
func (s *Session) CreateDeck(ctx context.Context, name, description string) error {
	body := map[string]string{
		"deck_name":   name,
		"description": description,
	}
	return s.post(ctx, "/decks", body, nil)
}

// DeleteDeck removes a deck and all its cards.
func (s *Session) DeleteDeck(ctx context.Context, deckID int64) error {
	return s.delete(ctx, fmt.Sprintf("/decks/%d", deckID))
}
