// cmd/server/main.go
package main

import (
    "context"
    "encoding/json"
    "log"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/joho/godotenv"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    "github.com/unclebandit/mailflow-backend/internal/config"
    "github.com/unclebandit/mailflow-backend/internal/controller"
    "github.com/unclebandit/mailflow-backend/internal/db"
    "github.com/unclebandit/mailflow-backend/internal/logger"
    "github.com/unclebandit/mailflow-backend/internal/mailer"
    "github.com/unclebandit/mailflow-backend/internal/queue"
    "github.com/unclebandit/mailflow-backend/internal/repository"
    "github.com/unclebandit/mailflow-backend/internal/service"
)

func main() {
    // Load .env
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

    userRepo := &repository.UserRepository{DB: conn}
    clientRepo := &repository.ClientRepository{DB: conn}
    messageRepo := &repository.MessageRepository{DB: conn}
    mailingRepo := &repository.MailingRepository{DB: conn}
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
        Logger:      appLogger,
    }

    var dispatchQueue queue.Queue
    if cfg.AMQPURL != "" {
        amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL)
        if err != nil {
            log.Fatal("failed to connect to RabbitMQ:", err)
        }
        defer amqpQueue.Close()
        dispatchQueue = amqpQueue
    } else {
        // No broker configured: run dispatch jobs in process instead of
        // handing them to cmd/worker.
        memQueue := queue.NewInMemoryQueue()
        memQueue.Subscribe(queue.DispatchTopic, func(body []byte) error {
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
        dispatchQueue = memQueue
    }

    authService := &service.AuthService{
        UserRepo:  userRepo,
        Mailer:    smtpMailer,
        JWTSecret: cfg.JWTSecret,
        JWTExpiry: time.Duration(cfg.JWTExpiryHours) * time.Hour,
        BaseURL:   cfg.BaseURL,
        Logger:    appLogger,
    }
    clientService := &service.ClientService{ClientRepo: clientRepo}
    messageService := &service.MessageService{MessageRepo: messageRepo}
    mailingService := &service.MailingService{
        MailingRepo: mailingRepo,
        MessageRepo: messageRepo,
        ClientRepo:  clientRepo,
        Engine:      engine,
        Queue:       dispatchQueue,
    }
    statsService := &service.StatsService{
        MailingRepo: mailingRepo,
        MessageRepo: messageRepo,
        ClientRepo:  clientRepo,
    }

    authController := &controller.AuthController{AuthService: authService}
    clientController := &controller.ClientController{ClientService: clientService}
    messageController := &controller.MessageController{MessageService: messageService}
    mailingController := &controller.MailingController{MailingService: mailingService, AttemptRepo: attemptRepo}
    userController := &controller.UserController{AuthService: authService, StatsService: statsService}

    authMiddleware := &auth.Middleware{UserRepo: userRepo, JWTSecret: cfg.JWTSecret}

    r := chi.NewRouter()

    // Public auth routes
    r.Post("/auth/register", authController.Register)
    r.Get("/auth/verify/{token}", authController.VerifyEmail)
    r.Post("/auth/login", authController.Login)
    r.Post("/auth/password-reset", authController.RequestPasswordReset)
    r.Post("/auth/password-reset/confirm", authController.ConfirmPasswordReset)

    // Everything else needs a logged-in user
    r.Group(func(r chi.Router) {
        r.Use(authMiddleware.RequireUser)

        r.Get("/", userController.Home)
        r.Get("/logs", mailingController.Logs)

        r.Get("/clients", clientController.List)
        r.Post("/clients", clientController.Create)
        r.Get("/clients/{id}", clientController.Get)
        r.Put("/clients/{id}", clientController.Update)
        r.Delete("/clients/{id}", clientController.Delete)

        r.Get("/messages", messageController.List)
        r.Post("/messages", messageController.Create)
        r.Get("/messages/{id}", messageController.Get)
        r.Put("/messages/{id}", messageController.Update)
        r.Delete("/messages/{id}", messageController.Delete)

        r.Get("/mailings", mailingController.List)
        r.Post("/mailings", mailingController.Create)
        r.Get("/mailings/{id}", mailingController.Get)
        r.Put("/mailings/{id}", mailingController.Update)
        r.Delete("/mailings/{id}", mailingController.Delete)
        r.Post("/mailings/{id}/send", mailingController.Send)
        r.Post("/mailings/{id}/toggle", mailingController.Toggle)

        r.Get("/users", userController.List)
        r.Post("/users/{id}/block", userController.Block)
    })

    log.Println("🚀 Server running on :" + cfg.Port)
    log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
