// internal/model/mailing.go
package model

import "time"

// Mailing statuses
const (
    StatusCreated   = "created"
    StatusStarted   = "started"
    StatusCompleted = "completed"
)

// Mailing periods
const (
    PeriodDaily   = "daily"
    PeriodWeekly  = "weekly"
    PeriodMonthly = "monthly"
    PeriodOnce    = "once"
)

type Mailing struct {
    ID         int        `db:"id" json:"id"`
    Title      string     `db:"title" json:"title"`
    StartedAt  time.Time  `db:"started_at" json:"started_at"`
    FinishedAt *time.Time `db:"finished_at" json:"finished_at,omitempty"`
    Period     string     `db:"period" json:"period"`
    Status     string     `db:"status" json:"status"`
    MessageID  int        `db:"message_id" json:"message_id"`
    OwnerID    *int       `db:"owner_id" json:"owner_id,omitempty"`
    ClientIDs  []int      `db:"-" json:"client_ids,omitempty"`
}

func ValidPeriod(p string) bool {
    switch p {
    case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodOnce:
        return true
    }
    return false
}
