// internal/service/mailing_service.go
package service

import (
    "strings"
    "time"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
    "github.com/unclebandit/mailflow-backend/internal/model"
    "github.com/unclebandit/mailflow-backend/internal/queue"
    "github.com/unclebandit/mailflow-backend/internal/repository"
)

type MailingService struct {
    MailingRepo repository.MailingRepositoryInterface
    MessageRepo repository.MessageRepositoryInterface
    ClientRepo  repository.ClientRepositoryInterface
    Engine      *DispatchEngine
    Queue       queue.Queue
}

type MailingInput struct {
    Title      string     `json:"title"`
    FinishedAt *time.Time `json:"finished_at"`
    Period     string     `json:"period"`
    MessageID  int        `json:"message_id"`
    ClientIDs  []int      `json:"client_ids"`
}

// SendResult is what the send endpoint reports back.
type SendResult struct {
    MailingID int    `json:"mailing_id"`
    Queued    bool   `json:"queued"`
    Reason    string `json:"reason,omitempty"`
}

func (s *MailingService) List(actor *model.User) ([]model.Mailing, error) {
    if actor.IsManager {
        return s.MailingRepo.ListAll()
    }
    return s.MailingRepo.ListByOwner(actor.ID)
}

func (s *MailingService) Get(actor *model.User, id int) (*model.Mailing, error) {
    mailing, err := s.MailingRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if !auth.Can(actor, auth.ActionView, mailing.OwnerID) {
        return nil, appErrors.ErrPermissionDenied
    }
    return mailing, nil
}

func (s *MailingService) Create(actor *model.User, in MailingInput) (*model.Mailing, error) {
    if err := s.validate(actor, &in); err != nil {
        return nil, err
    }

    ownerID := actor.ID
    mailing := &model.Mailing{
        Title:      in.Title,
        FinishedAt: in.FinishedAt,
        Period:     in.Period,
        Status:     model.StatusCreated,
        MessageID:  in.MessageID,
        OwnerID:    &ownerID,
        ClientIDs:  in.ClientIDs,
    }
    if err := s.MailingRepo.Create(mailing); err != nil {
        return nil, err
    }
    return mailing, nil
}

// Update rebinds the mutable fields; started_at and status are never
// taken from input.
func (s *MailingService) Update(actor *model.User, id int, in MailingInput) (*model.Mailing, error) {
    mailing, err := s.MailingRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if !auth.Can(actor, auth.ActionEdit, mailing.OwnerID) {
        return nil, appErrors.ErrPermissionDenied
    }
    if err := s.validate(actor, &in); err != nil {
        return nil, err
    }

    mailing.Title = in.Title
    mailing.FinishedAt = in.FinishedAt
    mailing.Period = in.Period
    mailing.MessageID = in.MessageID
    mailing.ClientIDs = in.ClientIDs
    if err := s.MailingRepo.Update(mailing); err != nil {
        return nil, err
    }
    return mailing, nil
}

func (s *MailingService) Delete(actor *model.User, id int) error {
    mailing, err := s.MailingRepo.GetByID(id)
    if err != nil {
        return err
    }
    if !auth.Can(actor, auth.ActionDelete, mailing.OwnerID) {
        return appErrors.ErrPermissionDenied
    }
    return s.MailingRepo.Delete(id)
}

// Toggle is the manual enable/disable override, available to the owner or
// a holder of the disable-mailing capability.
func (s *MailingService) Toggle(actor *model.User, id int) (*model.Mailing, error) {
    mailing, err := s.MailingRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if !auth.Can(actor, auth.ActionToggleMailing, mailing.OwnerID) {
        return nil, appErrors.ErrPermissionDenied
    }
    if err := s.Engine.Toggle(mailing); err != nil {
        return nil, err
    }
    return mailing, nil
}

// Send queues a dispatch job for the mailing. A mailing already completed
// is a no-op outcome, not an error.
func (s *MailingService) Send(actor *model.User, id int) (*SendResult, error) {
    mailing, err := s.MailingRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if !auth.Can(actor, auth.ActionEdit, mailing.OwnerID) {
        return nil, appErrors.ErrPermissionDenied
    }

    if mailing.Status == model.StatusCompleted {
        return &SendResult{
            MailingID: id,
            Queued:    false,
            Reason:    "mailing is completed and cannot be sent",
        }, nil
    }

    if err := s.Queue.Publish(queue.DispatchTopic, queue.DispatchJob{MailingID: id}); err != nil {
        return nil, err
    }
    return &SendResult{MailingID: id, Queued: true}, nil
}

// validate checks the input and restricts the referenced message and
// clients to ones the actor owns (managers may reference anything).
func (s *MailingService) validate(actor *model.User, in *MailingInput) error {
    if strings.TrimSpace(in.Title) == "" {
        return appErrors.NewValidation("title is required")
    }
    if in.Period == "" {
        in.Period = model.PeriodOnce
    }
    if !model.ValidPeriod(in.Period) {
        return appErrors.NewValidation("invalid period: %q", in.Period)
    }
    if len(in.ClientIDs) == 0 {
        return appErrors.NewValidation("at least one client is required")
    }

    message, err := s.MessageRepo.GetByID(in.MessageID)
    if err != nil {
        return err
    }
    if !auth.Can(actor, auth.ActionView, message.OwnerID) {
        return appErrors.ErrPermissionDenied
    }

    for _, clientID := range in.ClientIDs {
        client, err := s.ClientRepo.GetByID(clientID)
        if err != nil {
            return err
        }
        if !auth.Can(actor, auth.ActionView, client.OwnerID) {
            return appErrors.ErrPermissionDenied
        }
    }
    return nil
}
