// internal/controller/auth_controller.go
package controller

import (
    "encoding/json"
    "net/http"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/mailflow-backend/internal/service"
)

type AuthController struct {
    AuthService *service.AuthService
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
    var body service.RegisterInput
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    user, err := c.AuthService.Register(r.Context(), body)
    if err != nil {
        writeError(w, err)
        return
    }

    writeJSON(w, http.StatusCreated, map[string]interface{}{
        "user":    user,
        "message": "check your inbox for a verification link",
    })
}

func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
    token := chi.URLParam(r, "token")

    user, err := c.AuthService.VerifyEmail(r.Context(), token)
    if err != nil {
        writeError(w, err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "user":    user,
        "message": "email verified, you can log in now",
    })
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Email    string `json:"email"`
        Password string `json:"password"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    token, user, err := c.AuthService.Login(r.Context(), body.Email, body.Password)
    if err != nil {
        writeError(w, err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "token": token,
        "user":  user,
    })
}

func (c *AuthController) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Email string `json:"email"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    if err := c.AuthService.RequestPasswordReset(r.Context(), body.Email); err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{
        "message": "if the email exists, a reset link was sent",
    })
}

func (c *AuthController) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Token    string `json:"token"`
        Password string `json:"password"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    if err := c.AuthService.ConfirmPasswordReset(r.Context(), body.Token, body.Password); err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
