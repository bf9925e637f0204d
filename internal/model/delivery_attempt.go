// internal/model/delivery_attempt.go
package model

import "time"

// Delivery attempt outcomes
const (
    AttemptSuccess = "success"
    AttemptFailed  = "failed"
)

// DeliveryAttempt is an append-only log entry: one row per client per
// dispatch invocation, never updated afterwards.
type DeliveryAttempt struct {
    ID             int       `db:"id" json:"id"`
    MailingID      int       `db:"mailing_id" json:"mailing_id"`
    ClientID       int       `db:"client_id" json:"client_id"`
    Status         string    `db:"status" json:"status"`
    ServerResponse string    `db:"server_response" json:"server_response"`
    CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
