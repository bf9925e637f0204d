// cmd/worker/main.go
package main

import (
    "context"
    "encoding/json"
    "log"
    "time"

    "github.com/joho/godotenv"

    "github.com/unclebandit/mailflow-backend/internal/config"
    "github.com/unclebandit/mailflow-backend/internal/db"
    "github.com/unclebandit/mailflow-backend/internal/lease"
    "github.com/unclebandit/mailflow-backend/internal/logger"
    "github.com/unclebandit/mailflow-backend/internal/mailer"
    "github.com/unclebandit/mailflow-backend/internal/queue"
    "github.com/unclebandit/mailflow-backend/internal/repository"
    "github.com/unclebandit/mailflow-backend/internal/service"
)

// The worker consumes dispatch jobs published by the API's send endpoint
// and drives the dispatch engine for each mailing.
func main() {
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    cfg, err := config.Load()
    if err != nil {
        log.Fatal("invalid configuration:", err)
    }
    if cfg.AMQPURL == "" {
        log.Fatal("AMQP_URL is required for the worker")
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

    // Dispatch leases are optional. Without redis, overlapping jobs for
    // the same mailing may both deliver.
    if cfg.RedisURL != "" {
        locker, err := lease.NewRedisLocker(context.Background(), cfg.RedisURL)
        if err != nil {
            log.Fatal("failed to connect to redis:", err)
        }
        defer locker.Close()
        engine.Locks = locker
    }

    dispatchQueue, err := queue.NewAMQPQueue(cfg.AMQPURL)
    if err != nil {
        log.Fatal("failed to connect to RabbitMQ:", err)
    }
    defer dispatchQueue.Close()

    err = dispatchQueue.Subscribe(queue.DispatchTopic, func(body []byte) error {
        var job queue.DispatchJob
        if err := json.Unmarshal(body, &job); err != nil {
            return err
        }

        mailing, err := mailingRepo.GetByID(job.MailingID)
        if err != nil {
            return err
        }

        result, err := engine.Dispatch(context.Background(), mailing, time.Now())
        if err != nil {
            return err
        }

        if result.Skipped {
            appLogger.Info("mailing skipped", "mailing_id", job.MailingID, "reason", result.Reason)
            return nil
        }
        appLogger.Info("mailing dispatched",
            "mailing_id", job.MailingID,
            "attempted", result.Attempted,
            "delivered", result.Delivered,
            "failed", result.Failed,
        )
        return nil
    })
    if err != nil {
        log.Fatal("failed to subscribe:", err)
    }

    log.Println("👷 Worker consuming dispatch jobs...")
    select {} // block forever
}
