// internal/service/runner.go
package service

import (
    "context"
    "log/slog"
    "time"

    "github.com/unclebandit/mailflow-backend/internal/repository"
)

// Runner enumerates mailings whose status is created or started and
// dispatches each one. It is a pure driver: iteration plus per-item
// progress logging, nothing more.
type Runner struct {
    MailingRepo repository.MailingRepositoryInterface
    Engine      *DispatchEngine
    Logger      *slog.Logger
}

// Run processes one scheduled pass. A failing mailing is logged and never
// prevents the remaining mailings from being processed.
func (r *Runner) Run(ctx context.Context) (int, error) {
    mailings, err := r.MailingRepo.ListActive()
    if err != nil {
        return 0, err
    }

    processed := 0
    now := time.Now()

    for i := range mailings {
        m := &mailings[i]
        r.log().Info("processing mailing", "mailing_id", m.ID, "title", m.Title)

        result, err := r.Engine.Dispatch(ctx, m, now)
        if err != nil {
            r.log().Error("mailing dispatch failed", "mailing_id", m.ID, "error", err)
            continue
        }
        processed++

        if result.Skipped {
            r.log().Info("mailing skipped", "mailing_id", m.ID, "reason", result.Reason)
            continue
        }
        r.log().Info("mailing dispatched",
            "mailing_id", m.ID,
            "attempted", result.Attempted,
            "delivered", result.Delivered,
            "failed", result.Failed,
        )
    }

    return processed, nil
}

func (r *Runner) log() *slog.Logger {
    if r.Logger != nil {
        return r.Logger
    }
    return slog.Default()
}
