// internal/model/client.go
package model

import "time"

type Client struct {
    ID        int        `db:"id" json:"id"`
    Email     string     `db:"email" json:"email"`
    Name      string     `db:"name" json:"name"`
    Comment   string     `db:"comment" json:"comment,omitempty"`
    OwnerID   *int       `db:"owner_id" json:"owner_id,omitempty"`
    CreatedAt time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
