// internal/service/auth_service.go
package service

import (
    "context"
    "fmt"
    "log/slog"
    "net/mail"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
    "github.com/unclebandit/mailflow-backend/internal/mailer"
    "github.com/unclebandit/mailflow-backend/internal/model"
    "github.com/unclebandit/mailflow-backend/internal/repository"
)

type AuthService struct {
    UserRepo  repository.UserRepositoryInterface
    Mailer    mailer.Mailer
    JWTSecret string
    JWTExpiry time.Duration
    // BaseURL is used to build verification and reset links.
    BaseURL string
    Logger  *slog.Logger
}

type RegisterInput struct {
    Email    string `json:"email"`
    Username string `json:"username"`
    Password string `json:"password"`
    Phone    string `json:"phone"`
    Country  string `json:"country"`
}

// Register creates an inactive account and emails a verification link.
// The account cannot log in until the link is visited.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
    if _, err := mail.ParseAddress(in.Email); err != nil {
        return nil, appErrors.NewValidation("invalid email address: %q", in.Email)
    }
    if strings.TrimSpace(in.Username) == "" {
        return nil, appErrors.NewValidation("username is required")
    }
    if len(in.Password) < 8 {
        return nil, appErrors.NewValidation("password must be at least 8 characters")
    }

    existing, err := s.UserRepo.GetByEmail(in.Email)
    if err != nil {
        return nil, err
    }
    if existing != nil {
        return nil, appErrors.ErrEmailExists
    }

    hashed, err := auth.HashPassword(in.Password)
    if err != nil {
        return nil, err
    }

    user := &model.User{
        Email:        in.Email,
        Username:     in.Username,
        PasswordHash: hashed,
        Phone:        in.Phone,
        Country:      in.Country,
        IsActive:     false,
        VerifyToken:  uuid.NewString(),
    }
    if err := s.UserRepo.Create(user); err != nil {
        return nil, err
    }

    link := fmt.Sprintf("%s/auth/verify/%s", s.BaseURL, user.VerifyToken)
    if err := s.Mailer.Send(ctx,
        "Confirm your email",
        "Hi! Follow this link to confirm your email: "+link,
        user.Email,
    ); err != nil {
        // Registration stands; the user can ask for the mail again.
        s.log().Error("failed to send verification email", "user_id", user.ID, "error", err)
    }

    return user, nil
}

// VerifyEmail activates the account behind a verification token and sends
// the welcome mail.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
    user, err := s.UserRepo.GetByVerifyToken(token)
    if err != nil {
        return nil, err
    }
    if user == nil || token == "" {
        return nil, appErrors.ErrInvalidToken
    }

    user.IsActive = true
    user.VerifyToken = ""
    if err := s.UserRepo.Update(user); err != nil {
        return nil, err
    }

    if err := s.Mailer.Send(ctx,
        "Welcome to the mailing manager!",
        "Thanks for signing up!",
        user.Email,
    ); err != nil {
        s.log().Error("failed to send welcome email", "user_id", user.ID, "error", err)
    }
    return user, nil
}

// Login checks credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
    user, err := s.UserRepo.GetByEmail(email)
    if err != nil {
        return "", nil, err
    }
    if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
        return "", nil, appErrors.ErrInvalidCredentials
    }
    if !user.IsActive {
        return "", nil, appErrors.ErrAccountInactive
    }

    token, err := auth.GenerateToken(user.ID, s.JWTSecret, s.JWTExpiry)
    if err != nil {
        return "", nil, err
    }
    return token, user, nil
}

// RequestPasswordReset emails a reset link. An unknown email is reported
// as success so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
    user, err := s.UserRepo.GetByEmail(email)
    if err != nil {
        return err
    }
    if user == nil {
        return nil
    }

    user.ResetToken = uuid.NewString()
    if err := s.UserRepo.Update(user); err != nil {
        return err
    }

    link := fmt.Sprintf("%s/auth/password-reset/%s", s.BaseURL, user.ResetToken)
    if err := s.Mailer.Send(ctx,
        "Password reset",
        "Follow this link to set a new password: "+link,
        user.Email,
    ); err != nil {
        s.log().Error("failed to send reset email", "user_id", user.ID, "error", err)
    }
    return nil
}

// ConfirmPasswordReset sets a new password for the account behind a reset
// token and invalidates the token.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
    if len(newPassword) < 8 {
        return appErrors.NewValidation("password must be at least 8 characters")
    }

    user, err := s.UserRepo.GetByResetToken(token)
    if err != nil {
        return err
    }
    if user == nil || token == "" {
        return appErrors.ErrInvalidToken
    }

    hashed, err := auth.HashPassword(newPassword)
    if err != nil {
        return err
    }
    user.PasswordHash = hashed
    user.ResetToken = ""
    return s.UserRepo.Update(user)
}

// ListUsers returns the non-manager accounts, for user administration.
func (s *AuthService) ListUsers(actor *model.User) ([]model.User, error) {
    if !auth.Can(actor, auth.ActionListUsers, nil) {
        return nil, appErrors.ErrPermissionDenied
    }
    return s.UserRepo.List()
}

// BlockUser toggles the active flag of an account. Manager accounts
// cannot be blocked this way.
func (s *AuthService) BlockUser(actor *model.User, id int) (*model.User, error) {
    if !auth.Can(actor, auth.ActionBlockUser, nil) {
        return nil, appErrors.ErrPermissionDenied
    }

    user, err := s.UserRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if user.IsManager {
        return nil, appErrors.ErrPermissionDenied
    }

    user.IsActive = !user.IsActive
    if err := s.UserRepo.SetActive(user.ID, user.IsActive); err != nil {
        return nil, err
    }
    return user, nil
}

func (s *AuthService) log() *slog.Logger {
    if s.Logger != nil {
        return s.Logger
    }
    return slog.Default()
}
