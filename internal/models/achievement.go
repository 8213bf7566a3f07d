package models

// Achievement is one gamification badge, earned or not.
type Achievement struct {
	AchievementID int64  `json:"achievement_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IconURL       string `json:"icon_url"`
	Earned        Flag   `json:"earned"`
	EarnedAt      string `json:"earned_at,omitempty"`
}

// NewAchievement is a freshly awarded badge from a check-achievements call.
type NewAchievement struct {
	AchievementID int64  `json:"achievement_id"`
	Name          string `json:"name"`
}
