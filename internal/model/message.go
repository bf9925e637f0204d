// internal/model/message.go
package model

import "time"

type Message struct {
    ID        int        `db:"id" json:"id"`
    Subject   string     `db:"subject" json:"subject"`
    Body      string     `db:"body" json:"body"`
    OwnerID   *int       `db:"owner_id" json:"owner_id,omitempty"`
    CreatedAt time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
