package api

import (
	"context"

	"autorevise/internal/models"
)

// AchievementList is the full badge catalog with the user's progress.
type AchievementList struct {
	Achievements []models.Achievement `json:"achievements"`
	Total        int                  `json:"total"`
	Earned       int                  `json:"earned"`
}

// GetAchievements fetches all achievements and the user's earned state.
func (s *Session) GetAchievements(ctx context.Context) (*AchievementList, error) {
	var resp AchievementList
	if err := s.get(ctx, "/achievements", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckAchievements asks the backend to award anything newly earned
// and returns the fresh awards.
func (s *Session) CheckAchievements(ctx context.Context) ([]models.NewAchievement, error) {
	var resp struct {
		NewAchievements []models.NewAchievement `json:"new_achievements"`
	}
	if err := s.post(ctx, "/check-achievements", nil, &resp); err != nil {
		return nil, err
	}
	return resp.NewAchievements, nil
}
