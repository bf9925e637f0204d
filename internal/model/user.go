// internal/model/user.go
package model

import "time"

type User struct {
    ID           int        `db:"id" json:"id"`
    Email        string     `db:"email" json:"email"`
    Username     string     `db:"username" json:"username"`
    PasswordHash string     `db:"password_hash" json:"-"`
    Phone        string     `db:"phone" json:"phone,omitempty"`
    Country      string     `db:"country" json:"country,omitempty"`
    IsActive     bool       `db:"is_active" json:"is_active"`
    IsManager    bool       `db:"is_manager" json:"is_manager"`
    VerifyToken  string     `db:"verify_token" json:"-"`
    ResetToken   string     `db:"reset_token" json:"-"`
    CreatedAt    time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
