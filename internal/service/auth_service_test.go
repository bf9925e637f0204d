package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unclebandit/mailflow-backend/internal/auth"
	appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
	"github.com/unclebandit/mailflow-backend/internal/mailer"
	"github.com/unclebandit/mailflow-backend/internal/model"
	"github.com/unclebandit/mailflow-backend/internal/service"
)

type MockUserRepo struct {
	users  map[int]*model.User
	nextID int
}

func newMockUserRepo() *MockUserRepo {
	return &MockUserRepo{users: map[int]*model.User{}, nextID: 1}
}

func (m *MockUserRepo) Create(u *model.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockUserRepo) GetByID(id int) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, appErrors.NewUserNotFound(id)
}

func (m *MockUserRepo) GetByEmail(email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepo) GetByVerifyToken(token string) (*model.User, error) {
	for _, u := range m.users {
		if u.VerifyToken == token && token != "" {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepo) GetByResetToken(token string) (*model.User, error) {
	for _, u := range m.users {
		if u.ResetToken == token && token != "" {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepo) Update(u *model.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *MockUserRepo) SetActive(id int, active bool) error {
	if u, ok := m.users[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (m *MockUserRepo) List() ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		if !u.IsManager {
			out = append(out, *u)
		}
	}
	return out, nil
}

func newAuthService() (*service.AuthService, *MockUserRepo, *mailer.MockMailer) {
	repo := newMockUserRepo()
	mock := mailer.NewMockMailer()
	svc := &service.AuthService{
		UserRepo:  repo,
		Mailer:    mock,
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
		BaseURL:   "http://localhost:8080",
	}
	return svc, repo, mock
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc, _, mock := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, service.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.IsActive {
		t.Error("expected new account inactive until verified")
	}
	if user.VerifyToken == "" {
		t.Fatal("expected a verification token")
	}
	if len(mock.Sent) != 1 || mock.Sent[0].Recipient != "alice@example.com" {
		t.Fatalf("expected one verification mail to alice, got %v", mock.Sent)
	}

	// Login before verification is rejected.
	if _, _, err := svc.Login(ctx, "alice@example.com", "password123"); !errors.Is(err, appErrors.ErrAccountInactive) {
		t.Errorf("expected ErrAccountInactive, got %v", err)
	}

	verified, err := svc.VerifyEmail(ctx, user.VerifyToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verified.IsActive || verified.VerifyToken != "" {
		t.Error("expected active account with cleared token after verification")
	}

	token, loggedIn, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, loggedIn.ID)
	}

	userID, err := auth.ParseToken(token, "test-secret")
	if err != nil || userID != user.ID {
		t.Errorf("expected valid token for user %d, got id=%d err=%v", user.ID, userID, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	in := service.RegisterInput{Email: "alice@example.com", Username: "alice", Password: "password123"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(ctx, in); !errors.Is(err, appErrors.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	hashed, _ := auth.HashPassword("password123")
	repo.Create(&model.User{Email: "alice@example.com", PasswordHash: hashed, IsActive: true})

	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, appErrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, appErrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, repo, mock := newAuthService()
	ctx := context.Background()

	hashed, _ := auth.HashPassword("old-password1")
	repo.Create(&model.User{Email: "alice@example.com", PasswordHash: hashed, IsActive: true})

	if err := svc.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Sent) != 1 {
		t.Fatalf("expected one reset mail, got %d", len(mock.Sent))
	}

	user, _ := repo.GetByEmail("alice@example.com")
	if user.ResetToken == "" {
		t.Fatal("expected a reset token")
	}

	if err := svc.ConfirmPasswordReset(ctx, user.ResetToken, "new-password1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "new-password1"); err != nil {
		t.Errorf("expected login with new password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", "old-password1"); !errors.Is(err, appErrors.ErrInvalidCredentials) {
		t.Errorf("expected old password rejected, got %v", err)
	}

	// The token is single use.
	if err := svc.ConfirmPasswordReset(ctx, user.ResetToken, "another-pass1"); !errors.Is(err, appErrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken on reuse, got %v", err)
	}
}

func TestPasswordResetUnknownEmailSilent(t *testing.T) {
	svc, _, mock := newAuthService()

	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Errorf("expected silent success for unknown email, got %v", err)
	}
	if len(mock.Sent) != 0 {
		t.Errorf("expected no mail for unknown email, got %d", len(mock.Sent))
	}
}

func TestBlockUser(t *testing.T) {
	svc, repo, _ := newAuthService()

	repo.Create(&model.User{Email: "manager@example.com", IsManager: true, IsActive: true})
	repo.Create(&model.User{Email: "alice@example.com", IsActive: true})

	manager, _ := repo.GetByEmail("manager@example.com")
	alice, _ := repo.GetByEmail("alice@example.com")

	blocked, err := svc.BlockUser(manager, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocked.IsActive {
		t.Error("expected account blocked")
	}

	// Blocking again unblocks.
	unblocked, err := svc.BlockUser(manager, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !unblocked.IsActive {
		t.Error("expected account unblocked on second call")
	}

	// Regular users cannot block, managers cannot be blocked.
	if _, err := svc.BlockUser(alice, manager.ID); !errors.Is(err, appErrors.ErrPermissionDenied) {
		t.Errorf("expected permission denied, got %v", err)
	}
	if _, err := svc.BlockUser(manager, manager.ID); !errors.Is(err, appErrors.ErrPermissionDenied) {
		t.Errorf("expected managers unblockable, got %v", err)
	}
}
