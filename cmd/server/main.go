package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "talentdesk/internal/adapters/email"
	web "talentdesk/internal/adapters/http"
	"talentdesk/internal/adapters/storage"
	accountStore "talentdesk/internal/adapters/storage/account"
	appStore "talentdesk/internal/adapters/storage/application"
	interviewStore "talentdesk/internal/adapters/storage/interview"
	notificationStore "talentdesk/internal/adapters/storage/notification"
	"talentdesk/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	// WAL mode, foreign keys, and a busy timeout for concurrent handlers.
	dbPath := envOrDefault("TALENTDESK_DB", "talentdesk.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	applications := appStore.NewSQLiteStore(db)
	interviews := interviewStore.NewSQLiteStore(db)
	accounts := accountStore.NewSQLiteStore(db)
	stores := &web.Stores{
		NotificationStore: notificationStore.NewSQLiteStore(db),
		InterviewStore:    interviews,
		ApplicationStore:  applications,
		AccountStore:      accounts,
	}

	// Seed demo recruiting data for development only
	if os.Getenv("TALENTDESK_ENV") != "production" {
		seedDeps := orchestrators.SeedDemoDeps{
			Accounts:     accounts,
			Applications: applications,
			Interviews:   interviews,
			Now:          time.Now,
		}
		if err := orchestrators.ExecuteSeedDemo(context.Background(), seedDeps); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		log.Println("Demo seed data loaded (dev mode)")
	}

	cfg := web.Config{
		FromAddress: envOrDefault("TALENTDESK_FROM", "TalentDesk <noreply@talentdesk.example.com>"),
		ReplyTo:     envOrDefault("TALENTDESK_REPLY_TO", "talent@talentdesk.example.com"),
		CompanyName: envOrDefault("TALENTDESK_COMPANY", "TalentDesk"),
		OrgDomain:   envOrDefault("TALENTDESK_ORG_DOMAIN", "talentdesk.example.com"),
	}
	mux := web.NewMux(stores, cfg)

	// Configure email sender
	resendKey := os.Getenv("TALENTDESK_RESEND_KEY")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, cfg.FromAddress))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if os.Getenv("TALENTDESK_ENV") == "production" {
			log.Println("WARNING: TALENTDESK_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set TALENTDESK_RESEND_KEY for real delivery)")
		}
	}

	addr := envOrDefault("TALENTDESK_ADDR", ":8080")
	log.Printf("TalentDesk %s starting on %s (env=%s)", version, addr, envOrDefault("TALENTDESK_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
