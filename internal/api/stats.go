package api

import (
	"context"
	"fmt"

	"autorevise/internal/models"
)

// GetStats fetches the user's statistics.
func (s *Session) GetStats(ctx context.Context) (*models.Stats, error) {
	var resp struct {
		Stats *models.Stats `json:"stats"`
	}
	if err := s.get(ctx, "/stats", &resp); err != nil {
		return nil, err
	}
	if resp.Stats == nil {
		return nil, &DecodeError{Endpoint: "/stats", Reason: "missing stats in response"}
	}
	return resp.Stats, nil
}

// GetStudyLog fetches recent per-day study activity, newest first.
func (s *Session) GetStudyLog(ctx context.Context, limit int) ([]models.StudyLogEntry, error) {
	var resp struct {
		Logs []models.StudyLogEntry `json:"logs"`
	}
	if err := s.get(ctx, fmt.Sprintf("/studylog?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}
