package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"autorevise/internal/api"
	"autorevise/internal/config"
	"autorevise/internal/handlers"
	"autorevise/internal/security"
	"autorevise/internal/service"
	"autorevise/internal/session"
)

func main() {
	// Load .env if present; real deployments use the environment directly
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	// Load configuration
	cfg := config.Load()

	setupLogging(cfg.LogLevel)

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Info("Templates loaded successfully")

	// Initialize backend client and stores
	client := api.NewClient(cfg.APIBaseURL)
	profiles := session.NewProfileStore(cfg.ProfileSecret, cfg.ProfileDuration)
	studyService := service.NewStudyService()
	loginLimiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	log.WithField("backend", cfg.APIBaseURL).Info("Backend client initialized")

	// Initialize handlers
	middleware := handlers.NewMiddleware(profiles)
	authHandler := handlers.NewAuthHandler(client, profiles, templates)
	dashboardHandler := handlers.NewDashboardHandler(client, profiles, templates)
	deckHandler := handlers.NewDeckHandler(client, profiles, templates)
	studyHandler := handlers.NewStudyHandler(client, profiles, studyService, templates)
	achievementsHandler := handlers.NewAchievementsHandler(client, profiles, templates)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Public routes
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", handlers.RateLimit(loginLimiter, authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", handlers.RateLimit(loginLimiter, authHandler.Register))
	mux.HandleFunc("POST /logout", authHandler.Logout)

	// Dashboard and deck routes
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(dashboardHandler.Dashboard))
	mux.HandleFunc("POST /decks/create", middleware.RequireAuth(dashboardHandler.CreateDeck))
	mux.HandleFunc("POST /decks/{deckId}/delete", middleware.RequireAuth(dashboardHandler.DeleteDeck))
	mux.HandleFunc("GET /decks/{deckId}", middleware.RequireAuth(deckHandler.ViewDeck))
	mux.HandleFunc("POST /decks/{deckId}/cards/add", middleware.RequireAuth(deckHandler.AddCard))
	mux.HandleFunc("POST /decks/{deckId}/cards/{cardId}/update", middleware.RequireAuth(deckHandler.UpdateCard))
	mux.HandleFunc("POST /decks/{deckId}/cards/{cardId}/delete", middleware.RequireAuth(deckHandler.DeleteCard))

	// CSV import routes
	mux.HandleFunc("POST /decks/{deckId}/import", middleware.RequireAuth(deckHandler.UploadCSV))
	mux.HandleFunc("POST /decks/{deckId}/import/confirm", middleware.RequireAuth(deckHandler.ConfirmImport))

	// Study routes
	mux.HandleFunc("POST /study/start", middleware.RequireAuth(studyHandler.StartStudy))
	mux.HandleFunc("GET /study", middleware.RequireAuth(studyHandler.ShowStudy))
	mux.HandleFunc("POST /study/reveal", middleware.RequireAuth(studyHandler.Reveal))
	mux.HandleFunc("POST /study/rate", middleware.RequireAuth(studyHandler.Rate))
	mux.HandleFunc("POST /study/answer", middleware.RequireAuth(studyHandler.AnswerMCQ))
	mux.HandleFunc("GET /study/results", middleware.RequireAuth(studyHandler.Results))

	// Achievements
	mux.HandleFunc("GET /achievements", middleware.RequireAuth(achievementsHandler.Show))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup of abandoned sessions and import previews
	go cleanupStaleState(studyService, deckHandler, cfg.StudySessionTTL)

	// Graceful shutdown
	go func() {
		log.Infof("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}
}

// setupLogging configures the global logger
func setupLogging(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	files, err := filepath.Glob(filepath.Join(templatesPath, "*.tmpl"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found in %s", templatesPath)
	}

	// Define template functions
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"pct": func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a * 100 / b
		},
		"safeCard": handlers.SafeCardHTML,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// cleanupStaleState periodically removes abandoned study sessions and
// unconfirmed import previews
func cleanupStaleState(study *service.StudyService, decks *handlers.DeckHandler, maxIdle time.Duration) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if n := study.CleanupStale(maxIdle); n > 0 {
			log.WithField("count", n).Info("Cleaned up stale study sessions")
		}
		if n := decks.CleanupPendingImports(maxIdle); n > 0 {
			log.WithField("count", n).Info("Cleaned up unconfirmed imports")
		}
	}
}
