package handlers

import (
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"autorevise/internal/csvimport"
	"autorevise/internal/models"
	"autorevise/internal/service"
)

// cardPolicy sanitizes card content before it is rendered as HTML.
// Cards may carry simple formatting from the backend but never
// scripts or event handlers.
var cardPolicy = bluemonday.UGCPolicy()

// SafeCardHTML sanitizes backend-supplied card content for rendering.
func SafeCardHTML(content string) template.HTML {
	return template.HTML(cardPolicy.Sanitize(content))
}

type LoginViewData struct {
	Title   string
	User    *models.User
	Error   string
	Email   string
	Success string
}

type RegisterViewData struct {
	Title    string
	User     *models.User
	Error    string
	Username string
	Email    string
}

// CardView pairs a card with its presentation status.
type CardView struct {
	models.Card
	Status string
}

func newCardViews(cards []models.Card) []CardView {
	now := time.Now()
	views := make([]CardView, len(cards))
	for i, card := range cards {
		views[i] = CardView{Card: card, Status: card.DisplayStatus(now)}
	}
	return views
}

type DashboardViewData struct {
	Title    string
	User     *models.User
	Decks    []models.Deck
	Stats    *models.Stats
	StudyLog []models.StudyLogEntry
	Error    string
}

type DeckViewData struct {
	Title string
	User  *models.User
	Deck  *models.Deck
	Cards []CardView
	Error string
}

type ImportPreviewViewData struct {
	Title     string
	User      *models.User
	Deck      *models.Deck
	Preview   []csvimport.Record
	Total     int
	ImportKey string
}

type StudyViewData struct {
	Title        string
	User         *models.User
	Item         *models.StudyItem
	FrontHTML    template.HTML
	BackHTML     template.HTML
	Revealed     bool
	CurrentIndex int
	TotalItems   int
	Points       int
}

type MCQViewData struct {
	Title        string
	User         *models.User
	MCQ          *models.MCQ
	Result       *models.MCQResult
	CurrentIndex int
	TotalItems   int
	Points       int
}

type StudyResultsViewData struct {
	Title           string
	User            *models.User
	Stats           service.SessionStats
	Duration        string
	NewAchievements []models.NewAchievement
}

// AchievementView pairs an achievement with its earned state resolved
// to a plain bool for template use.
type AchievementView struct {
	models.Achievement
	IsEarned bool
}

type AchievementsViewData struct {
	Title        string
	User         *models.User
	Achievements []AchievementView
	Stats        *models.Stats
	Filter       string
	EarnedCount  int
	LockedCount  int
	TotalCount   int
	Error        string
}
