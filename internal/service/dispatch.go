// internal/service/dispatch.go
package service

import (
    "context"
    "log/slog"
    "time"
    "unicode/utf8"

    "github.com/unclebandit/mailflow-backend/internal/lease"
    "github.com/unclebandit/mailflow-backend/internal/mailer"
    "github.com/unclebandit/mailflow-backend/internal/model"
    "github.com/unclebandit/mailflow-backend/internal/repository"
)

// ServerResponseLimit is the storage limit of the server_response column.
const ServerResponseLimit = 512

// Skip reasons reported on a no-op dispatch.
const (
    SkipCompleted = "completed"
    SkipLocked    = "locked"
)

// DispatchEngine brings one mailing's status up to date and, if it is
// still eligible, attempts delivery to every associated client, recording
// exactly one delivery attempt per client per invocation.
type DispatchEngine struct {
    MailingRepo repository.MailingRepositoryInterface
    MessageRepo repository.MessageRepositoryInterface
    AttemptRepo repository.AttemptRepositoryInterface
    Mailer      mailer.Mailer

    // Locks is optional. When set, Dispatch takes a per-mailing lease so
    // overlapping invocations for the same mailing skip instead of racing.
    Locks    lease.Locker
    LeaseTTL time.Duration

    Logger *slog.Logger
}

// DispatchResult reports what one Dispatch call did.
type DispatchResult struct {
    MailingID int    `json:"mailing_id"`
    Status    string `json:"status"`
    Skipped   bool   `json:"skipped"`
    Reason    string `json:"reason,omitempty"`
    Attempted int    `json:"attempted"`
    Delivered int    `json:"delivered"`
    Failed    int    `json:"failed"`
}

// UpdateStatus advances the mailing's status from the current time: past
// the scheduled end it becomes completed, otherwise anything not yet
// completed becomes started. A mailing without a scheduled end never
// auto-completes. The new status is persisted with a single-row update.
func (e *DispatchEngine) UpdateStatus(m *model.Mailing, now time.Time) error {
    if m.FinishedAt != nil && m.FinishedAt.Before(now) {
        m.Status = model.StatusCompleted
    } else if m.Status != model.StatusCompleted {
        m.Status = model.StatusStarted
    }
    return e.MailingRepo.UpdateStatus(m.ID, m.Status)
}

// Dispatch is safe to call repeatedly: status convergence is idempotent,
// delivery is not. Every eligible call sends again to every client.
func (e *DispatchEngine) Dispatch(ctx context.Context, m *model.Mailing, now time.Time) (*DispatchResult, error) {
    result := &DispatchResult{MailingID: m.ID}

    if e.Locks != nil {
        acquired, err := e.Locks.Acquire(ctx, m.ID, e.leaseTTL())
        if err != nil {
            return nil, err
        }
        if !acquired {
            result.Status = m.Status
            result.Skipped = true
            result.Reason = SkipLocked
            return result, nil
        }
        defer e.Locks.Release(ctx, m.ID)
    }

    if err := e.UpdateStatus(m, now); err != nil {
        return nil, err
    }
    result.Status = m.Status

    if m.Status == model.StatusCompleted {
        // Terminal outcome for this invocation, not an error.
        result.Skipped = true
        result.Reason = SkipCompleted
        return result, nil
    }

    message, err := e.MessageRepo.GetByID(m.MessageID)
    if err != nil {
        return nil, err
    }

    clients, err := e.MailingRepo.GetClients(m.ID)
    if err != nil {
        return nil, err
    }

    for _, client := range clients {
        result.Attempted++

        attempt := &model.DeliveryAttempt{
            MailingID: m.ID,
            ClientID:  client.ID,
        }

        // A failure for one client never aborts the remaining clients.
        if sendErr := e.Mailer.Send(ctx, message.Subject, message.Body, client.Email); sendErr != nil {
            attempt.Status = model.AttemptFailed
            attempt.ServerResponse = truncate(sendErr.Error(), ServerResponseLimit)
            result.Failed++
            e.log().Warn("delivery failed", "mailing_id", m.ID, "client_id", client.ID, "error", sendErr)
        } else {
            attempt.Status = model.AttemptSuccess
            result.Delivered++
        }

        if err := e.AttemptRepo.Create(attempt); err != nil {
            e.log().Error("failed to record delivery attempt", "mailing_id", m.ID, "client_id", client.ID, "error", err)
        }
    }

    return result, nil
}

// Toggle is the manual override: completed goes back to started, anything
// else becomes completed, regardless of the scheduled end. Permission is
// checked by the caller.
func (e *DispatchEngine) Toggle(m *model.Mailing) error {
    if m.Status == model.StatusCompleted {
        m.Status = model.StatusStarted
    } else {
        m.Status = model.StatusCompleted
    }
    return e.MailingRepo.UpdateStatus(m.ID, m.Status)
}

func (e *DispatchEngine) leaseTTL() time.Duration {
    if e.LeaseTTL > 0 {
        return e.LeaseTTL
    }
    return 5 * time.Minute
}

func (e *DispatchEngine) log() *slog.Logger {
    if e.Logger != nil {
        return e.Logger
    }
    return slog.Default()
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
    if len(s) <= limit {
        return s
    }
    cut := limit
    for cut > 0 && !utf8.RuneStart(s[cut]) {
        cut--
    }
    return s[:cut]
}
