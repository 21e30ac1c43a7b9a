package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/sportexhq/sportex/internal/api"
	"github.com/sportexhq/sportex/internal/config"
	"github.com/sportexhq/sportex/internal/email"
	"github.com/sportexhq/sportex/internal/notify"
	"github.com/sportexhq/sportex/internal/registration"
	"github.com/sportexhq/sportex/internal/store"
)

// main is the entry point for the Sportex backend server.
func main() {
	// Load a .env file when present; production deployments set real
	// environment variables instead.
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, using environment variables from the system.")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("FATAL: Failed to load application configuration: %v", err)
	}

	// --- Document store ---
	var docStore store.Store
	switch cfg.StoreDriver {
	case "mongo":
		docStore, err = store.OpenMongo(context.Background(), cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
		}
	default:
		if err := os.MkdirAll(cfg.DbPath, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create database directory at %s: %v", cfg.DbPath, err)
		}
		docStore, err = store.OpenSQLite(filepath.Join(cfg.DbPath, "sportex.db"))
		if err != nil {
			log.Fatalf("FATAL: Failed to open document store: %v", err)
		}
	}
	defer docStore.Close(context.Background())

	log.Printf("INFO: Document store initialized (driver=%s).", cfg.StoreDriver)

	// --- Notification emitter (SMTP optional) ---
	var mailer *email.Service
	if cfg.EmailEnabled() {
		mailer = email.NewService(email.SMTPConfig{
			Host:     cfg.SmtpHost,
			Port:     cfg.SmtpPort,
			Username: cfg.SmtpUser,
			Password: cfg.SmtpPass,
			Sender:   cfg.SmtpSender,
		})
		log.Println("INFO: Notification mailer enabled.")
	}
	emitter := notify.NewEmitter(docStore, mailer)

	// --- Registration engine ---
	engine := registration.NewEngine(docStore, emitter)

	// --- API server and routes ---
	serverAPI := api.NewServer(cfg, docStore, emitter, engine)

	router := chi.NewRouter()
	serverAPI.RegisterRoutes(router)

	log.Printf("INFO: Sportex server starting on %s", cfg.ServerAddr)

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}
