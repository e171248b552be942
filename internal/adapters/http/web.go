// Package web exposes the JSON admin and API surface of the notification
// engine: outbox inspection and resend, campaign send/preview, and the
// interview lifecycle endpoints.
package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"talentdesk/internal/adapters/email"
	"talentdesk/internal/adapters/http/middleware"
	accountStore "talentdesk/internal/adapters/storage/account"
	appStore "talentdesk/internal/adapters/storage/application"
	interviewStore "talentdesk/internal/adapters/storage/interview"
	notifStore "talentdesk/internal/adapters/storage/notification"
	"talentdesk/internal/adapters/template"
	"talentdesk/internal/application/orchestrators"
	"talentdesk/internal/domain/calendar"
)

// Stores holds all storage dependencies.
type Stores struct {
	NotificationStore notifStore.Store
	InterviewStore    interviewStore.Store
	ApplicationStore  appStore.Store
	AccountStore      accountStore.Store
}

// Config carries the mail identity and organization settings the handlers
// need when building deliveries.
type Config struct {
	FromAddress string
	ReplyTo     string
	CompanyName string
	OrgDomain   string
}

// loadCSRFKey reads the CSRF secret from TALENTDESK_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("TALENTDESK_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("TALENTDESK_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("TALENTDESK_ENV") == "production" {
		log.Fatal("TALENTDESK_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set TALENTDESK_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global config instance (set by NewMux)
var config Config

// Global template renderer (set by NewMux)
var renderer *template.MarkdownRenderer

// Global calendar generator (set by NewMux)
var calendarGen *calendar.Generator

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// deliverDeps assembles the delivery engine dependencies from the globals.
func deliverDeps() orchestrators.DeliverDeps {
	return orchestrators.DeliverDeps{
		Records:     stores.NotificationStore,
		Sender:      emailSender,
		Renderer:    renderer,
		FromAddress: config.FromAddress,
		ReplyTo:     config.ReplyTo,
		Now:         time.Now,
		GenerateID:  func() string { return uuid.New().String() },
	}
}

// notifyDeps assembles the event notification dependencies.
func notifyDeps() orchestrators.NotifyEventDeps {
	return orchestrators.NotifyEventDeps{
		Deliver:     deliverDeps(),
		CompanyName: config.CompanyName,
	}
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, cfg Config) http.Handler {
	stores = s
	config = cfg
	renderer = template.NewMarkdownRenderer()
	calendarGen = calendar.NewGenerator(cfg.OrgDomain)

	mux := http.NewServeMux()
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: SecurityHeaders -> CSRF -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.RateLimit(limiter),
	)
}
