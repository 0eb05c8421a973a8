package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/memorizabiblia/memoriza-api/internal/database"
	"github.com/memorizabiblia/memoriza-api/internal/engine"
	"github.com/memorizabiblia/memoriza-api/internal/localstore"
	"github.com/memorizabiblia/memoriza-api/internal/mail"
	"github.com/memorizabiblia/memoriza-api/internal/reminder"
	"github.com/memorizabiblia/memoriza-api/internal/remotestore"
	"github.com/memorizabiblia/memoriza-api/internal/verse"
	"github.com/memorizabiblia/memoriza-api/pkg/config"
)

// defaultTimezone is the zone pushed on profiles that never set one; the app
// ships for Brazilian Portuguese speakers.
const defaultTimezone = "America/Sao_Paulo"

type Server struct {
	port       string
	db         database.Service
	handler    http.Handler
	cfg        *config.Config
	mail       *mail.Mailer
	local      *localstore.Store
	remote     *remotestore.Store
	sessions   *engine.Manager
	dispatcher *reminder.Dispatcher
}

// NewServer constructs the app server with all dependencies injected.
func NewServer(db database.Service, local *localstore.Store, cfg *config.Config) *Server {
	stats := db.Health()
	mailer := mail.NewMail(
		cfg.SmtpFrom,
		"MemorizaBíblia",
		cfg.SmtpPassword,
		cfg.SmtpHost,
		cfg.SmtpPort,
	)

	fmt.Println("Database Health:", stats)

	if stats["status"] != "up" {
		log.Fatal("Database connection failed")
		return &Server{}
	}
	log.Println("Database connection successful")

	remote := remotestore.New(db)
	provider := verse.NewProvider(
		cfg.ContentAPIURL,
		cfg.ContentAPIKey,
		cfg.ContentModel,
		cfg.ContentFallback,
		cfg.ContentTimeout,
	)

	sessions := engine.NewManager(engine.Deps{
		Provider: provider,
		Local:    local,
		Remote:   remote,
		Searcher: remote,
		Corpus:   remote,
		Debounce: cfg.PushDebounce,
		Timezone: defaultTimezone,
	})

	s := &Server{
		port:       cfg.Port,
		db:         db,
		cfg:        cfg,
		mail:       mailer,
		local:      local,
		remote:     remote,
		sessions:   sessions,
		dispatcher: reminder.NewDispatcher(remote, mailer),
	}

	s.handler = s.RegisterRoutes()
	return s
}

// HTTPServer returns the actual *http.Server instance
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// StartBackgroundJobs starts the reminder dispatcher.
func (s *Server) StartBackgroundJobs() {
	s.dispatcher.Start()
}

// StopBackgroundJobs stops the dispatcher and flushes the live sessions.
func (s *Server) StopBackgroundJobs() {
	s.dispatcher.Stop()
	s.sessions.CloseAll()
	log.Println("Background jobs stopped gracefully")
}
