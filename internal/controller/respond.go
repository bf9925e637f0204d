// internal/controller/respond.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"

    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(payload)
}

// writeError maps service errors onto HTTP statuses: permission problems
// are 403, unknown identifiers 404, conflicts 409, rejected input 400.
func writeError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, appErrors.ErrPermissionDenied):
        http.Error(w, err.Error(), http.StatusForbidden)
    case appErrors.IsNotFound(err):
        http.Error(w, err.Error(), http.StatusNotFound)
    case appErrors.IsValidation(err):
        http.Error(w, err.Error(), http.StatusBadRequest)
    case errors.Is(err, appErrors.ErrMessageInUse):
        http.Error(w, err.Error(), http.StatusConflict)
    case errors.Is(err, appErrors.ErrEmailExists), errors.Is(err, appErrors.ErrClientEmailExists):
        http.Error(w, err.Error(), http.StatusConflict)
    case errors.Is(err, appErrors.ErrInvalidCredentials), errors.Is(err, appErrors.ErrAccountInactive):
        http.Error(w, err.Error(), http.StatusUnauthorized)
    case errors.Is(err, appErrors.ErrInvalidToken):
        http.Error(w, err.Error(), http.StatusBadRequest)
    default:
        http.Error(w, err.Error(), http.StatusInternalServerError)
    }
}
