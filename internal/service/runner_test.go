package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/unclebandit/mailflow-backend/internal/mailer"
	"github.com/unclebandit/mailflow-backend/internal/model"
	"github.com/unclebandit/mailflow-backend/internal/service"
)

func TestRunnerProcessesActiveMailings(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	mailingRepo := &MockMailingRepo{
		mailings: map[int]*model.Mailing{
			1: {ID: 1, Title: "A", Status: model.StatusCreated, FinishedAt: timePtr(future), MessageID: 1, OwnerID: intPtr(1)},
			2: {ID: 2, Title: "B", Status: model.StatusStarted, FinishedAt: timePtr(past), MessageID: 1, OwnerID: intPtr(1)},
			3: {ID: 3, Title: "C", Status: model.StatusCompleted, FinishedAt: nil, MessageID: 1, OwnerID: intPtr(1)},
		},
		clients: map[int][]model.Client{
			1: {{ID: 1, Email: "c1@example.com"}},
			2: {{ID: 2, Email: "c2@example.com"}},
		},
	}
	messageRepo := &MockMessageRepo{
		messages: map[int]*model.Message{1: {ID: 1, Subject: "Hi", Body: "News"}},
		inUse:    map[int]bool{},
	}
	attemptRepo := &MockAttemptRepo{}
	mock := mailer.NewMockMailer()

	runner := &service.Runner{
		MailingRepo: mailingRepo,
		Engine:      newEngine(mailingRepo, messageRepo, attemptRepo, mock),
	}

	processed, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mailing 3 is completed and never enters the pass.
	if processed != 2 {
		t.Errorf("expected 2 processed, got %d", processed)
	}
	// Mailing 1 delivers, mailing 2 is past its end and completes silently.
	if len(mock.Sent) != 1 {
		t.Errorf("expected 1 mail sent, got %d", len(mock.Sent))
	}
	if mailingRepo.mailings[2].Status != model.StatusCompleted {
		t.Errorf("expected mailing 2 completed, got %s", mailingRepo.mailings[2].Status)
	}
}

func TestRunnerIsolatesFailingMailing(t *testing.T) {
	future := time.Now().Add(time.Hour)

	mailingRepo := &MockMailingRepo{
		mailings: map[int]*model.Mailing{
			// Mailing 1 references a message that no longer exists.
			1: {ID: 1, Title: "Broken", Status: model.StatusCreated, FinishedAt: timePtr(future), MessageID: 99, OwnerID: intPtr(1)},
			2: {ID: 2, Title: "Fine", Status: model.StatusCreated, FinishedAt: timePtr(future), MessageID: 1, OwnerID: intPtr(1)},
		},
		clients: map[int][]model.Client{
			1: {{ID: 1, Email: "c1@example.com"}},
			2: {{ID: 2, Email: "c2@example.com"}},
		},
	}
	messageRepo := &MockMessageRepo{
		messages: map[int]*model.Message{1: {ID: 1, Subject: "Hi", Body: "News"}},
		inUse:    map[int]bool{},
	}
	attemptRepo := &MockAttemptRepo{}
	mock := mailer.NewMockMailer()

	runner := &service.Runner{
		MailingRepo: mailingRepo,
		Engine:      newEngine(mailingRepo, messageRepo, attemptRepo, mock),
	}

	processed, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if processed != 1 {
		t.Errorf("expected 1 processed, got %d", processed)
	}
	if len(mock.Sent) != 1 {
		t.Errorf("expected the healthy mailing to still deliver, got %d sends", len(mock.Sent))
	}
	if mock.Sent[0].Recipient != "c2@example.com" {
		t.Errorf("expected delivery to c2@example.com, got %s", mock.Sent[0].Recipient)
	}
}
