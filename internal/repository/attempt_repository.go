package repository

import (
    "database/sql"
    "time"

    "github.com/unclebandit/mailflow-backend/internal/model"
)

// AttemptRepositoryInterface is deliberately insert-and-list only:
// delivery attempts are never updated or deleted.
type AttemptRepositoryInterface interface {
    Create(a *model.DeliveryAttempt) error
    ListAll(limit int) ([]model.DeliveryAttempt, error)
    ListByOwner(ownerID int, limit int) ([]model.DeliveryAttempt, error)
}

type AttemptRepository struct {
    DB *sql.DB
}

func (r *AttemptRepository) Create(a *model.DeliveryAttempt) error {
    a.CreatedAt = time.Now()
    query := `
        INSERT INTO delivery_attempts (mailing_id, client_id, status, server_response, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
    return r.DB.QueryRow(query, a.MailingID, a.ClientID, a.Status, a.ServerResponse, a.CreatedAt).Scan(&a.ID)
}

func (r *AttemptRepository) ListAll(limit int) ([]model.DeliveryAttempt, error) {
    query := `
        SELECT id, mailing_id, client_id, status, server_response, created_at
        FROM delivery_attempts ORDER BY id DESC LIMIT $1
    `
    return r.list(query, limit)
}

// ListByOwner returns attempts for mailings owned by the given user.
func (r *AttemptRepository) ListByOwner(ownerID int, limit int) ([]model.DeliveryAttempt, error) {
    query := `
        SELECT a.id, a.mailing_id, a.client_id, a.status, a.server_response, a.created_at
        FROM delivery_attempts a
        JOIN mailings m ON m.id = a.mailing_id
        WHERE m.owner_id = $1
        ORDER BY a.id DESC LIMIT $2
    `
    return r.list(query, ownerID, limit)
}

func (r *AttemptRepository) list(query string, args ...interface{}) ([]model.DeliveryAttempt, error) {
    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    attempts := []model.DeliveryAttempt{}
    for rows.Next() {
        var a model.DeliveryAttempt
        if err := rows.Scan(&a.ID, &a.MailingID, &a.ClientID, &a.Status, &a.ServerResponse, &a.CreatedAt); err != nil {
            return nil, err
        }
        attempts = append(attempts, a)
    }
    return attempts, rows.Err()
}

var _ AttemptRepositoryInterface = (*AttemptRepository)(nil)
