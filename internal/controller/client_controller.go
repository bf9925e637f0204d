// internal/controller/client_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    "github.com/unclebandit/mailflow-backend/internal/service"
)

type ClientController struct {
    ClientService *service.ClientService
}

func (c *ClientController) List(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    clients, err := c.ClientService.List(actor)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"data": clients})
}

func (c *ClientController) Get(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    client, err := c.ClientService.Get(actor, id)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, client)
}

func (c *ClientController) Create(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    var body service.ClientInput
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    client, err := c.ClientService.Create(actor, body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, client)
}

func (c *ClientController) Update(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    var body service.ClientInput
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    client, err := c.ClientService.Update(actor, id, body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, client)
}

func (c *ClientController) Delete(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    if err := c.ClientService.Delete(actor, id); err != nil {
        writeError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}
