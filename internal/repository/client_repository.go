package repository

import (
    "database/sql"
    "time"

    "github.com/lib/pq"

    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
    "github.com/unclebandit/mailflow-backend/internal/model"
)

// ClientRepositoryInterface defines methods used by services
type ClientRepositoryInterface interface {
    Create(c *model.Client) error
    GetByID(id int) (*model.Client, error)
    Update(c *model.Client) error
    Delete(id int) error
    ListAll() ([]model.Client, error)
    ListByOwner(ownerID int) ([]model.Client, error)
    Count(ownerID *int) (int, error)
}

type ClientRepository struct {
    DB *sql.DB
}

// Create inserts a client. clients.email is UNIQUE, so a duplicate address
// is rejected by the store even if two creates race.
func (r *ClientRepository) Create(c *model.Client) error {
    c.CreatedAt = time.Now()
    query := `
        INSERT INTO clients (email, name, comment, owner_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
    err := r.DB.QueryRow(query, c.Email, c.Name, c.Comment, c.OwnerID, c.CreatedAt).Scan(&c.ID)
    return mapClientEmailConflict(err)
}

func (r *ClientRepository) GetByID(id int) (*model.Client, error) {
    query := `
        SELECT id, email, name, comment, owner_id, created_at, updated_at
        FROM clients WHERE id=$1
    `
    var c model.Client
    err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Email, &c.Name, &c.Comment, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewClientNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

func (r *ClientRepository) Update(c *model.Client) error {
    query := `
        UPDATE clients
        SET email=$1, name=$2, comment=$3, updated_at=NOW()
        WHERE id=$4
    `
    _, err := r.DB.Exec(query, c.Email, c.Name, c.Comment, c.ID)
    return mapClientEmailConflict(err)
}

func mapClientEmailConflict(err error) error {
    if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
        return appErrors.ErrClientEmailExists
    }
    return err
}

func (r *ClientRepository) Delete(id int) error {
    _, err := r.DB.Exec(`DELETE FROM clients WHERE id=$1`, id)
    return err
}

func (r *ClientRepository) ListAll() ([]model.Client, error) {
    query := `
        SELECT id, email, name, comment, owner_id, created_at, updated_at
        FROM clients ORDER BY id DESC
    `
    return r.list(query)
}

func (r *ClientRepository) ListByOwner(ownerID int) ([]model.Client, error) {
    query := `
        SELECT id, email, name, comment, owner_id, created_at, updated_at
        FROM clients WHERE owner_id=$1 ORDER BY id DESC
    `
    return r.list(query, ownerID)
}

// Count counts all clients, or only those of one owner when ownerID is set.
func (r *ClientRepository) Count(ownerID *int) (int, error) {
    var total int
    var err error
    if ownerID == nil {
        err = r.DB.QueryRow(`SELECT COUNT(*) FROM clients`).Scan(&total)
    } else {
        err = r.DB.QueryRow(`SELECT COUNT(*) FROM clients WHERE owner_id=$1`, *ownerID).Scan(&total)
    }
    return total, err
}

func (r *ClientRepository) list(query string, args ...interface{}) ([]model.Client, error) {
    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    clients := []model.Client{}
    for rows.Next() {
        var c model.Client
        if err := rows.Scan(&c.ID, &c.Email, &c.Name, &c.Comment, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, err
        }
        clients = append(clients, c)
    }
    return clients, rows.Err()
}

var _ ClientRepositoryInterface = (*ClientRepository)(nil)
