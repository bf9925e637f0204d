package repository

import (
    "database/sql"
    "time"

    "github.com/lib/pq"

    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
    "github.com/unclebandit/mailflow-backend/internal/model"
)

type MessageRepositoryInterface interface {
    Create(m *model.Message) error
    GetByID(id int) (*model.Message, error)
    Update(m *model.Message) error
    Delete(id int) error
    InUse(id int) (bool, error)
    ListAll() ([]model.Message, error)
    ListByOwner(ownerID int) ([]model.Message, error)
    Count(ownerID *int) (int, error)
}

type MessageRepository struct {
    DB *sql.DB
}

func (r *MessageRepository) Create(m *model.Message) error {
    m.CreatedAt = time.Now()
    query := `
        INSERT INTO messages (subject, body, owner_id, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
    return r.DB.QueryRow(query, m.Subject, m.Body, m.OwnerID, m.CreatedAt).Scan(&m.ID)
}

func (r *MessageRepository) GetByID(id int) (*model.Message, error) {
    query := `
        SELECT id, subject, body, owner_id, created_at, updated_at
        FROM messages WHERE id=$1
    `
    var m model.Message
    err := r.DB.QueryRow(query, id).Scan(&m.ID, &m.Subject, &m.Body, &m.OwnerID, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewMessageNotFound(id)
        }
        return nil, err
    }
    return &m, nil
}

func (r *MessageRepository) Update(m *model.Message) error {
    query := `
        UPDATE messages
        SET subject=$1, body=$2, updated_at=NOW()
        WHERE id=$3
    `
    _, err := r.DB.Exec(query, m.Subject, m.Body, m.ID)
    return err
}

// Delete refuses to remove a message still referenced by a mailing. The
// mailings.message_id FK is ON DELETE RESTRICT, so the store enforces this
// even if the service-level check races with a concurrent mailing create.
func (r *MessageRepository) Delete(id int) error {
    _, err := r.DB.Exec(`DELETE FROM messages WHERE id=$1`, id)
    if err != nil {
        if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
            return appErrors.ErrMessageInUse
        }
        return err
    }
    return nil
}

func (r *MessageRepository) InUse(id int) (bool, error) {
    var count int
    err := r.DB.QueryRow(`SELECT COUNT(*) FROM mailings WHERE message_id=$1`, id).Scan(&count)
    if err != nil {
        return false, err
    }
    return count > 0, nil
}

func (r *MessageRepository) ListAll() ([]model.Message, error) {
    query := `
        SELECT id, subject, body, owner_id, created_at, updated_at
        FROM messages ORDER BY id DESC
    `
    return r.list(query)
}

func (r *MessageRepository) ListByOwner(ownerID int) ([]model.Message, error) {
    query := `
        SELECT id, subject, body, owner_id, created_at, updated_at
        FROM messages WHERE owner_id=$1 ORDER BY id DESC
    `
    return r.list(query, ownerID)
}

func (r *MessageRepository) Count(ownerID *int) (int, error) {
    var total int
    var err error
    if ownerID == nil {
        err = r.DB.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&total)
    } else {
        err = r.DB.QueryRow(`SELECT COUNT(*) FROM messages WHERE owner_id=$1`, *ownerID).Scan(&total)
    }
    return total, err
}

func (r *MessageRepository) list(query string, args ...interface{}) ([]model.Message, error) {
    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    messages := []model.Message{}
    for rows.Next() {
        var m model.Message
        if err := rows.Scan(&m.ID, &m.Subject, &m.Body, &m.OwnerID, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        messages = append(messages, m)
    }
    return messages, rows.Err()
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
