// internal/controller/mailing_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    "github.com/unclebandit/mailflow-backend/internal/model"
    "github.com/unclebandit/mailflow-backend/internal/repository"
    "github.com/unclebandit/mailflow-backend/internal/service"
)

type MailingController struct {
    MailingService *service.MailingService
    AttemptRepo    repository.AttemptRepositoryInterface
}

func (c *MailingController) List(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    mailings, err := c.MailingService.List(actor)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"data": mailings})
}

func (c *MailingController) Get(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    mailing, err := c.MailingService.Get(actor, id)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, mailing)
}

func (c *MailingController) Create(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    var body service.MailingInput
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    mailing, err := c.MailingService.Create(actor, body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, mailing)
}

func (c *MailingController) Update(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    var body service.MailingInput
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    mailing, err := c.MailingService.Update(actor, id, body)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, mailing)
}

func (c *MailingController) Delete(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    if err := c.MailingService.Delete(actor, id); err != nil {
        writeError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

// Send queues the mailing for dispatch. An already-completed mailing gets
// a 200 with queued=false and the reason, not an error.
func (c *MailingController) Send(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    result, err := c.MailingService.Send(actor, id)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, result)
}

func (c *MailingController) Toggle(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())
    id, _ := strconv.Atoi(chi.URLParam(r, "id"))

    mailing, err := c.MailingService.Toggle(actor, id)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, mailing)
}

// Logs lists delivery attempts, newest first, scoped to mailings the
// actor owns unless the actor is a manager.
func (c *MailingController) Logs(w http.ResponseWriter, r *http.Request) {
    actor := auth.UserFromContext(r.Context())

    limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
    if limit < 1 || limit > 500 {
        limit = 100
    }

    var logs []model.DeliveryAttempt
    var err error
    if actor.IsManager {
        logs, err = c.AttemptRepo.ListAll(limit)
    } else {
        logs, err = c.AttemptRepo.ListByOwner(actor.ID, limit)
    }
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]interface{}{"data": logs})
}
