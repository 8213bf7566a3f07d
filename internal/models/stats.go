package models

// Stats is the per-user statistics object returned by the backend.
type Stats struct {
	TotalDecks         int `json:"total_decks"`
	TotalCards         int `json:"total_cards"`
	CardsDue           int `json:"cards_due"`
	CardsUpcoming      int `json:"cards_upcoming"`
	NewCards           int `json:"new_cards"`
	CurrentStreak      int `json:"current_streak"`
	TotalPoints        int `json:"total_points"`
	CardsReviewedToday int `json:"cards_reviewed_today"`
}

// StudyLogEntry is one day of study activity.
type StudyLogEntry struct {
	StudyDate     string `json:"study_date"`
	CardsReviewed int    `json:"cards_reviewed"`
}
