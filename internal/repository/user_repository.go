package repository

import (
    "database/sql"
    "time"

    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
    "github.com/unclebandit/mailflow-backend/internal/model"
)

type UserRepositoryInterface interface {
    Create(u *model.User) error
    GetByID(id int) (*model.User, error)
    GetByEmail(email string) (*model.User, error)
    GetByVerifyToken(token string) (*model.User, error)
    GetByResetToken(token string) (*model.User, error)
    Update(u *model.User) error
    SetActive(id int, active bool) error
    List() ([]model.User, error)
}

type UserRepository struct {
    DB *sql.DB
}

const userColumns = `id, email, username, password_hash, phone, country, is_active, is_manager, verify_token, reset_token, created_at, updated_at`

func (r *UserRepository) Create(u *model.User) error {
    u.CreatedAt = time.Now()
    query := `
        INSERT INTO users (email, username, password_hash, phone, country, is_active, is_manager, verify_token, reset_token, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
    return r.DB.QueryRow(query,
        u.Email, u.Username, u.PasswordHash, u.Phone, u.Country,
        u.IsActive, u.IsManager, u.VerifyToken, u.ResetToken, u.CreatedAt,
    ).Scan(&u.ID)
}

func (r *UserRepository) GetByID(id int) (*model.User, error) {
    query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
    u, err := scanUser(r.DB.QueryRow(query, id))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewUserNotFound(id)
        }
        return nil, err
    }
    return u, nil
}

// GetByEmail returns (nil, nil) when no user matches; login treats that the
// same as a wrong password.
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
    query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
    u, err := scanUser(r.DB.QueryRow(query, email))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return u, nil
}

func (r *UserRepository) GetByVerifyToken(token string) (*model.User, error) {
    query := `SELECT ` + userColumns + ` FROM users WHERE verify_token=$1`
    u, err := scanUser(r.DB.QueryRow(query, token))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return u, nil
}

func (r *UserRepository) GetByResetToken(token string) (*model.User, error) {
    query := `SELECT ` + userColumns + ` FROM users WHERE reset_token=$1`
    u, err := scanUser(r.DB.QueryRow(query, token))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return u, nil
}

func (r *UserRepository) Update(u *model.User) error {
    query := `
        UPDATE users
        SET email=$1, username=$2, password_hash=$3, phone=$4, country=$5,
            is_active=$6, is_manager=$7, verify_token=$8, reset_token=$9, updated_at=NOW()
        WHERE id=$10
    `
    _, err := r.DB.Exec(query,
        u.Email, u.Username, u.PasswordHash, u.Phone, u.Country,
        u.IsActive, u.IsManager, u.VerifyToken, u.ResetToken, u.ID,
    )
    return err
}

func (r *UserRepository) SetActive(id int, active bool) error {
    query := `UPDATE users SET is_active=$1, updated_at=NOW() WHERE id=$2`
    _, err := r.DB.Exec(query, active, id)
    return err
}

// List returns non-manager accounts, active ones first.
func (r *UserRepository) List() ([]model.User, error) {
    query := `SELECT ` + userColumns + ` FROM users WHERE is_manager=false ORDER BY is_active DESC, id DESC`
    rows, err := r.DB.Query(query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    users := []model.User{}
    for rows.Next() {
        u, err := scanUser(rows)
        if err != nil {
            return nil, err
        }
        users = append(users, *u)
    }
    return users, rows.Err()
}

type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
    var u model.User
    err := row.Scan(
        &u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Phone, &u.Country,
        &u.IsActive, &u.IsManager, &u.VerifyToken, &u.ResetToken,
        &u.CreatedAt, &u.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &u, nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
