package service_test

import (
	"errors"
	"testing"

	appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
	"github.com/unclebandit/mailflow-backend/internal/model"
	"github.com/unclebandit/mailflow-backend/internal/service"
)

func TestDeleteMessageInUse(t *testing.T) {
	owner := 1
	repo := &MockMessageRepo{
		messages: map[int]*model.Message{
			1: {ID: 1, Subject: "Hi", Body: "News", OwnerID: &owner},
		},
		inUse: map[int]bool{1: true},
	}
	svc := &service.MessageService{MessageRepo: repo}
	actor := &model.User{ID: 1}

	if err := svc.Delete(actor, 1); !errors.Is(err, appErrors.ErrMessageInUse) {
		t.Errorf("expected ErrMessageInUse, got %v", err)
	}
	if _, err := repo.GetByID(1); err != nil {
		t.Error("expected referenced message to survive delete")
	}

	// Once no mailing references it, delete goes through.
	repo.inUse[1] = false
	if err := svc.Delete(actor, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(1); !appErrors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestMessagePermissions(t *testing.T) {
	owner := 1
	repo := &MockMessageRepo{
		messages: map[int]*model.Message{
			1: {ID: 1, Subject: "Hi", Body: "News", OwnerID: &owner},
		},
		inUse: map[int]bool{},
	}
	svc := &service.MessageService{MessageRepo: repo}
	stranger := &model.User{ID: 2}

	if _, err := svc.Get(stranger, 1); !errors.Is(err, appErrors.ErrPermissionDenied) {
		t.Errorf("expected permission denied on get, got %v", err)
	}
	if _, err := svc.Update(stranger, 1, service.MessageInput{Subject: "x", Body: "y"}); !errors.Is(err, appErrors.ErrPermissionDenied) {
		t.Errorf("expected permission denied on update, got %v", err)
	}
	if err := svc.Delete(stranger, 1); !errors.Is(err, appErrors.ErrPermissionDenied) {
		t.Errorf("expected permission denied on delete, got %v", err)
	}

	manager := &model.User{ID: 9, IsManager: true}
	if _, err := svc.Get(manager, 1); err != nil {
		t.Errorf("expected manager access, got %v", err)
	}
}

func TestCreateMessageValidation(t *testing.T) {
	repo := &MockMessageRepo{messages: map[int]*model.Message{}, inUse: map[int]bool{}}
	svc := &service.MessageService{MessageRepo: repo}
	actor := &model.User{ID: 1}

	if _, err := svc.Create(actor, service.MessageInput{Subject: "", Body: "x"}); err == nil {
		t.Error("expected error for empty subject")
	}
	if _, err := svc.Create(actor, service.MessageInput{Subject: "x", Body: " "}); err == nil {
		t.Error("expected error for empty body")
	}

	msg, err := svc.Create(actor, service.MessageInput{Subject: "Hello", Body: "World"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.OwnerID == nil || *msg.OwnerID != actor.ID {
		t.Error("expected owner set to actor")
	}
}
