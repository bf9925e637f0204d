package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/unclebandit/mailflow-backend/internal/auth"
	appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
	"github.com/unclebandit/mailflow-backend/internal/model"
)

type MockUserRepo struct {
	users map[int]*model.User
}

func (m *MockUserRepo) Create(u *model.User) error { return nil }

func (m *MockUserRepo) GetByID(id int) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, appErrors.NewUserNotFound(id)
}

func (m *MockUserRepo) GetByEmail(email string) (*model.User, error) { return nil, nil }

func (m *MockUserRepo) GetByVerifyToken(token string) (*model.User, error) { return nil, nil }

func (m *MockUserRepo) GetByResetToken(token string) (*model.User, error) { return nil, nil }

func (m *MockUserRepo) Update(u *model.User) error { return nil }

func (m *MockUserRepo) SetActive(id int, active bool) error { return nil }

func (m *MockUserRepo) List() ([]model.User, error) { return nil, nil }

func TestRequireUser(t *testing.T) {
	repo := &MockUserRepo{users: map[int]*model.User{
		1: {ID: 1, Email: "alice@example.com", IsActive: true},
		2: {ID: 2, Email: "blocked@example.com", IsActive: false},
	}}
	mw := &auth.Middleware{UserRepo: repo, JWTSecret: "secret"}

	var gotUser *model.User
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	makeToken := func(userID int) string {
		token, err := auth.GenerateToken(userID, "secret", time.Hour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return token
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"unknown user", "Bearer " + makeToken(99), http.StatusUnauthorized},
		{"blocked user", "Bearer " + makeToken(2), http.StatusForbidden},
		{"active user", "Bearer " + makeToken(1), http.StatusOK},
	}

	for _, tc := range cases {
		gotUser = nil
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
		if tc.want == http.StatusOK && (gotUser == nil || gotUser.ID != 1) {
			t.Errorf("%s: expected user 1 in context, got %+v", tc.name, gotUser)
		}
	}
}
