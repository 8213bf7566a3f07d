package models

import "time"

// Card display statuses derived from the next review date. This is a
// display heuristic only; the real scheduling state lives on the
// backend and is never visible to this client.
const (
	CardStatusNew      = "new"
	CardStatusLearning = "learning"
	CardStatusMastered = "mastered"
)

// Card is a question/answer pair belonging to a deck.
type Card struct {
	CardID         int64  `json:"card_id"`
	DeckID         int64  `json:"deck_id,omitempty"`
	DeckName       string `json:"deck_name,omitempty"`
	FrontContent   string `json:"front_content"`
	BackContent    string `json:"back_content"`
	NextReviewDate string `json:"next_review_date,omitempty"`
}

// reviewDateFormats covers the shapes the backend emits for
// next_review_date: a bare date, an RFC 3339 timestamp, or the
// RFC 1123 form the JSON layer sometimes produces for date columns.
var reviewDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC1123,
}

// DisplayStatus classifies the card for display purposes: never
// reviewed is "new", scheduled in the future is "learning", due now or
// overdue is "mastered".
func (c Card) DisplayStatus(now time.Time) string {
	if c.NextReviewDate == "" {
		return CardStatusNew
	}
	next, ok := parseReviewDate(c.NextReviewDate)
	if !ok {
		return CardStatusNew
	}
	if next.After(now) {
		return CardStatusLearning
	}
	return CardStatusMastered
}

func parseReviewDate(s string) (time.Time, bool) {
	for _, layout := range reviewDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
