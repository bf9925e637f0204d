// internal/db/db.go
package db

import (
    "database/sql"

    _ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection with a ping.
func Open(databaseURL string) (*sql.DB, error) {
    conn, err := sql.Open("postgres", databaseURL)
    if err != nil {
        return nil, err
    }

    if err = conn.Ping(); err != nil {
        conn.Close()
        return nil, err
    }

    return conn, nil
}
