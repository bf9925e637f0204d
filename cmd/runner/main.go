// cmd/runner/main.go
package main

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"

    "github.com/unclebandit/mailflow-backend/internal/config"
    "github.com/unclebandit/mailflow-backend/internal/db"
    "github.com/unclebandit/mailflow-backend/internal/lease"
    "github.com/unclebandit/mailflow-backend/internal/logger"
    "github.com/unclebandit/mailflow-backend/internal/mailer"
    "github.com/unclebandit/mailflow-backend/internal/repository"
    "github.com/unclebandit/mailflow-backend/internal/service"
)

// One-shot campaign runner. Invoke from cron; every run sweeps the
// mailings that are not yet completed and dispatches each one.
func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    cfg, err := config.Load()
    if err != nil {
        log.Fatal("invalid configuration:", err)
    }
    appLogger := logger.New(cfg.LogLevel)

    conn, err := db.Open(cfg.DatabaseURL)
    if err != nil {
        log.Fatal("failed to connect to DB:", err)
    }
    defer conn.Close()

    mailingRepo := &repository.MailingRepository{DB: conn}
    messageRepo := &repository.MessageRepository{DB: conn}
    attemptRepo := &repository.AttemptRepository{DB: conn}

    smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromAddress)
    if err != nil {
        log.Fatal("failed to configure mailer:", err)
    }

    engine := &service.DispatchEngine{
        MailingRepo: mailingRepo,
        MessageRepo: messageRepo,
        AttemptRepo: attemptRepo,
        Mailer:      smtpMailer,
        LeaseTTL:    time.Duration(cfg.LeaseTTLSeconds) * time.Second,
        Logger:      appLogger,
    }

    if cfg.RedisURL != "" {
        locker, err := lease.NewRedisLocker(context.Background(), cfg.RedisURL)
        if err != nil {
            log.Fatal("failed to connect to redis:", err)
        }
        defer locker.Close()
        engine.Locks = locker
    }

    runner := &service.Runner{
        MailingRepo: mailingRepo,
        Engine:      engine,
        Logger:      appLogger,
    }

    processed, err := runner.Run(context.Background())
    if err != nil {
        log.Fatal("runner failed:", err)
    }
    log.Printf("✅ Runner pass complete, %d mailings processed", processed)
}
