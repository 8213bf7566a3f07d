package models

// Deck is a named collection of cards owned by a user. Decks are
// fetched fresh on every page view and never cached client-side.
type Deck struct {
	DeckID      int64  `json:"deck_id"`
	DeckName    string `json:"deck_name"`
	Description string `json:"description"`
	CardCount   int    `json:"card_count"`
	CreatedAt   string `json:"created_at,omitempty"`
}
