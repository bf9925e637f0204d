// internal/controller/user_controller.go
package controller

import (
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    "github.com/unclebandit/mailflow-backend/internal/service"
)

type UserController struct {
    AuthService  *service.AuthService
    StatsService *service.StatsService
}

// List is user administration, manager only.
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    users, err := c.AuthService.ListUsers(actor)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"data": users})
}

// Block toggles the active flag of a non-manager account.
func (c *UserController) Block(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    user, err := c.AuthService.BlockUser(actor, id)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, user)
}

// Home returns the dashboard counts.
func (c *UserController) Home(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    stats, err := c.StatsService.HomeStats(actor)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, stats)
}
