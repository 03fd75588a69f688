package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	emailPkg "mergington/internal/adapters/email"
	web "mergington/internal/adapters/http"
	"mergington/internal/adapters/http/perf"
	"mergington/internal/adapters/storage"
	accountStore "mergington/internal/adapters/storage/account"
	activityStore "mergington/internal/adapters/storage/activity"
	resettokenStore "mergington/internal/adapters/storage/resettoken"
	studentStore "mergington/internal/adapters/storage/student"
	"mergington/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("MERGINGTON_DB", "mergington.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db)

	// Create store instances (using timed DB for slow-query instrumentation)
	actStore := activityStore.NewSQLiteStore(timedDB)
	acctStore := accountStore.NewSQLiteStore(timedDB)
	stdStore := studentStore.NewSQLiteStore(timedDB)
	tokenStore := resettokenStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		ActivityStore:   actStore,
		AccountStore:    acctStore,
		StudentStore:    stdStore,
		ResetTokenStore: tokenStore,
	}

	// Seed the bundled catalog, default accounts, and students (idempotent)
	seedDeps := orchestrators.SeedDeps{
		ActivityStore: actStore,
		AccountStore:  acctStore,
		StudentStore:  stdStore,
	}
	if err := orchestrators.ExecuteSeed(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("MERGINGTON_RESEND_KEY")
	emailFrom := envOrDefault("MERGINGTON_RESEND_FROM", "Mergington High School <noreply@mergington.edu>")
	emailReply := envOrDefault("MERGINGTON_REPLY_TO", "office@mergington.edu")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("MERGINGTON_ENV") == "production" {
			log.Println("WARNING: MERGINGTON_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set MERGINGTON_RESEND_KEY for real delivery)")
		}
	}
	web.SetBaseURL(os.Getenv("MERGINGTON_BASE_URL"))

	// Purge expired password reset tokens hourly
	resetDeps := orchestrators.PasswordResetDeps{AccountStore: acctStore, TokenStore: tokenStore}
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		if err := orchestrators.ExecutePurgeResetTokens(context.Background(), resetDeps); err != nil {
			log.Printf("reset token purge failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("failed to schedule token purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create HTTP handler with middleware (pass collector for timing + perf endpoint)
	mux := web.NewMux("static", stores, collector)

	// Start server
	addr := envOrDefault("MERGINGTON_ADDR", ":8080")
	log.Printf("Mergington activities %s starting on %s (env=%s)", version, addr, envOrDefault("MERGINGTON_ENV", "development"))

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
