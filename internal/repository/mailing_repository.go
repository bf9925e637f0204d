package repository

import (
    "database/sql"
    "time"

    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
    "github.com/unclebandit/mailflow-backend/internal/model"
)

type MailingRepositoryInterface interface {
    Create(m *model.Mailing) error
    GetByID(id int) (*model.Mailing, error)
    Update(m *model.Mailing) error
    Delete(id int) error
    ListAll() ([]model.Mailing, error)
    ListByOwner(ownerID int) ([]model.Mailing, error)
    // ListActive returns mailings whose status is created or started.
    ListActive() ([]model.Mailing, error)
    UpdateStatus(mailingID int, status string) error
    GetClients(mailingID int) ([]model.Client, error)
    Count(ownerID *int, status string) (int, error)
}

type MailingRepository struct {
    DB *sql.DB
}

func (r *MailingRepository) Create(m *model.Mailing) error {
    m.StartedAt = time.Now()
    if m.Status == "" {
        m.Status = model.StatusCreated
    }
    if m.Period == "" {
        m.Period = model.PeriodOnce
    }

    tx, err := r.DB.Begin()
    if err != nil {
        return err
    }
    defer tx.Rollback()

    query := `
        INSERT INTO mailings (title, started_at, finished_at, period, status, message_id, owner_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
    err = tx.QueryRow(query, m.Title, m.StartedAt, m.FinishedAt, m.Period, m.Status, m.MessageID, m.OwnerID).Scan(&m.ID)
    if err != nil {
        return err
    }

    if err := insertMailingClients(tx, m.ID, m.ClientIDs); err != nil {
        return err
    }

    return tx.Commit()
}

func (r *MailingRepository) GetByID(id int) (*model.Mailing, error) {
    query := `
        SELECT id, title, started_at, finished_at, period, status, message_id, owner_id
        FROM mailings WHERE id=$1
    `
    var m model.Mailing
    err := r.DB.QueryRow(query, id).Scan(&m.ID, &m.Title, &m.StartedAt, &m.FinishedAt, &m.Period, &m.Status, &m.MessageID, &m.OwnerID)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewMailingNotFound(id)
        }
        return nil, err
    }

    rows, err := r.DB.Query(`SELECT client_id FROM mailing_clients WHERE mailing_id=$1 ORDER BY client_id`, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    for rows.Next() {
        var clientID int
        if err := rows.Scan(&clientID); err != nil {
            return nil, err
        }
        m.ClientIDs = append(m.ClientIDs, clientID)
    }
    return &m, rows.Err()
}

// Update rewrites the mutable fields and replaces the client set.
// started_at and status are deliberately left alone.
func (r *MailingRepository) Update(m *model.Mailing) error {
    tx, err := r.DB.Begin()
    if err != nil {
        return err
    }
    defer tx.Rollback()

    query := `
        UPDATE mailings
        SET title=$1, finished_at=$2, period=$3, message_id=$4
        WHERE id=$5
    `
    if _, err := tx.Exec(query, m.Title, m.FinishedAt, m.Period, m.MessageID, m.ID); err != nil {
        return err
    }

    if _, err := tx.Exec(`DELETE FROM mailing_clients WHERE mailing_id=$1`, m.ID); err != nil {
        return err
    }
    if err := insertMailingClients(tx, m.ID, m.ClientIDs); err != nil {
        return err
    }

    return tx.Commit()
}

func (r *MailingRepository) Delete(id int) error {
    _, err := r.DB.Exec(`DELETE FROM mailings WHERE id=$1`, id)
    return err
}

func (r *MailingRepository) ListAll() ([]model.Mailing, error) {
    query := `
        SELECT id, title, started_at, finished_at, period, status, message_id, owner_id
        FROM mailings ORDER BY id DESC
    `
    return r.list(query)
}

func (r *MailingRepository) ListByOwner(ownerID int) ([]model.Mailing, error) {
    query := `
        SELECT id, title, started_at, finished_at, period, status, message_id, owner_id
        FROM mailings WHERE owner_id=$1 ORDER BY id DESC
    `
    return r.list(query, ownerID)
}

func (r *MailingRepository) ListActive() ([]model.Mailing, error) {
    query := `
        SELECT id, title, started_at, finished_at, period, status, message_id, owner_id
        FROM mailings WHERE status IN ($1, $2) ORDER BY id
    `
    return r.list(query, model.StatusCreated, model.StatusStarted)
}

// UpdateStatus persists only the status field: a single-row atomic update,
// so two racing dispatchers cannot clobber other columns.
func (r *MailingRepository) UpdateStatus(mailingID int, status string) error {
    _, err := r.DB.Exec(`UPDATE mailings SET status=$1 WHERE id=$2`, status, mailingID)
    return err
}

func (r *MailingRepository) GetClients(mailingID int) ([]model.Client, error) {
    query := `
        SELECT c.id, c.email, c.name, c.comment, c.owner_id, c.created_at, c.updated_at
        FROM clients c
        JOIN mailing_clients mc ON mc.client_id = c.id
        WHERE mc.mailing_id = $1
        ORDER BY c.id
    `
    rows, err := r.DB.Query(query, mailingID)
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

func (r *MailingRepository) Count(ownerID *int, status string) (int, error) {
    query := `SELECT COUNT(*) FROM mailings WHERE 1=1`
    args := []interface{}{}
    argPos := 1

    if ownerID != nil {
        query += ` AND owner_id=$1`
        args = append(args, *ownerID)
        argPos++
    }
    if status != "" {
        if argPos == 1 {
            query += ` AND status=$1`
        } else {
            query += ` AND status=$2`
        }
        args = append(args, status)
    }

    var total int
    err := r.DB.QueryRow(query, args...).Scan(&total)
    return total, err
}

func (r *MailingRepository) list(query string, args ...interface{}) ([]model.Mailing, error) {
    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    mailings := []model.Mailing{}
    for rows.Next() {
        var m model.Mailing
        if err := rows.Scan(&m.ID, &m.Title, &m.StartedAt, &m.FinishedAt, &m.Period, &m.Status, &m.MessageID, &m.OwnerID); err != nil {
            return nil, err
        }
        mailings = append(mailings, m)
    }
    return mailings, rows.Err()
}

func insertMailingClients(tx *sql.Tx, mailingID int, clientIDs []int) error {
    for _, clientID := range clientIDs {
        if _, err := tx.Exec(
            `INSERT INTO mailing_clients (mailing_id, client_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
            mailingID, clientID,
        ); err != nil {
            return err
        }
    }
    return nil
}

var _ MailingRepositoryInterface = (*MailingRepository)(nil)
