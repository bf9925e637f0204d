// internal/service/message_service.go
package service

import (
    "strings"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
    "github.com/unclebandit/mailflow-backend/internal/model"
    "github.com/unclebandit/mailflow-backend/internal/repository"
)

type MessageService struct {
    MessageRepo repository.MessageRepositoryInterface
}

type MessageInput struct {
    Subject string `json:"subject"`
    Body    string `json:"body"`
}

func (in *MessageInput) validate() error {
    if strings.TrimSpace(in.Subject) == "" {
        return appErrors.NewValidation("subject is required")
    }
    if strings.TrimSpace(in.Body) == "" {
        return appErrors.NewValidation("body is required")
    }
    return nil
}

func (s *MessageService) List(actor *model.User) ([]model.Message, error) {
    if actor.IsManager {
        return s.MessageRepo.ListAll()
    }
    return s.MessageRepo.ListByOwner(actor.ID)
}

func (s *MessageService) Get(actor *model.User, id int) (*model.Message, error) {
    message, err := s.MessageRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if !auth.Can(actor, auth.ActionView, message.OwnerID) {
        return nil, appErrors.ErrPermissionDenied
    }
    return message, nil
}

func (s *MessageService) Create(actor *model.User, in MessageInput) (*model.Message, error) {
    if err := in.validate(); err != nil {
        return nil, err
    }

    ownerID := actor.ID
    message := &model.Message{
        Subject: in.Subject,
        Body:    in.Body,
        OwnerID: &ownerID,
    }
    if err := s.MessageRepo.Create(message); err != nil {
        return nil, err
    }
    return message, nil
}

func (s *MessageService) Update(actor *model.User, id int, in MessageInput) (*model.Message, error) {
    message, err := s.MessageRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if !auth.Can(actor, auth.ActionEdit, message.OwnerID) {
        return nil, appErrors.ErrPermissionDenied
    }
    if err := in.validate(); err != nil {
        return nil, err
    }

    message.Subject = in.Subject
    message.Body = in.Body
    if err := s.MessageRepo.Update(message); err != nil {
        return nil, err
    }
    return message, nil
}

// Delete refuses to remove a message that any mailing still references.
func (s *MessageService) Delete(actor *model.User, id int) error {
    message, err := s.MessageRepo.GetByID(id)
    if err != nil {
        return err
    }
    if !auth.Can(actor, auth.ActionDelete, message.OwnerID) {
        return appErrors.ErrPermissionDenied
    }

    inUse, err := s.MessageRepo.InUse(id)
    if err != nil {
        return err
    }
    if inUse {
        return appErrors.ErrMessageInUse
    }
    return s.MessageRepo.Delete(id)
}
