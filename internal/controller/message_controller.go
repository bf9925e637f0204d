// internal/controller/message_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    "github.com/unclebandit/mailflow-backend/internal/service"
)

type MessageController struct {
    MessageService *service.MessageService
}

func (c *MessageController) List(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    messages, err := c.MessageService.List(actor)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"data": messages})
}

func (c *MessageController) Get(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    message, err := c.MessageService.Get(actor, id)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, message)
}

func (c *MessageController) Create(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    var body service.MessageInput
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    message, err := c.MessageService.Create(actor, body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, message)
}

func (c *MessageController) Update(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    var body service.MessageInput
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    message, err := c.MessageService.Update(actor, id, body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, message)
}

func (c *MessageController) Delete(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    if err := c.MessageService.Delete(actor, id); err != nil {
        writeError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}
