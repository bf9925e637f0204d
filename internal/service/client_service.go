// internal/service/client_service.go
package service

import (
    "net/mail"
    "strings"

    "github.com/unclebandit/mailflow-backend/internal/auth"
    appErrors "github.com/unclebandit/mailflow-backend/internal/errors"
    "github.com/unclebandit/mailflow-backend/internal/model"
    "github.com/unclebandit/mailflow-backend/internal/repository"
)

type ClientService struct {
    ClientRepo repository.ClientRepositoryInterface
}

type ClientInput struct {
    Email   string `json:"email"`
    Name    string `json:"name"`
    Comment string `json:"comment"`
}

func (in *ClientInput) validate() error {
    if strings.TrimSpace(in.Name) == "" {
        return appErrors.NewValidation("name is required")
    }
    if _, err := mail.ParseAddress(in.Email); err != nil {
        return appErrors.NewValidation("invalid email address: %q", in.Email)
    }
    return nil
}

func (s *ClientService) List(actor *model.User) ([]model.Client, error) {
    if actor.IsManager {
        return s.ClientRepo.ListAll()
    }
    return s.ClientRepo.ListByOwner(actor.ID)
}

func (s *ClientService) Get(actor *model.User, id int) (*model.Client, error) {
    client, err := s.ClientRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if !auth.Can(actor, auth.ActionView, client.OwnerID) {
        return nil, appErrors.ErrPermissionDenied
    }
    return client, nil
}

func (s *ClientService) Create(actor *model.User, in ClientInput) (*model.Client, error) {
    if err := in.validate(); err != nil {
        return nil, err
    }

    ownerID := actor.ID
    client := &model.Client{
        Email:   in.Email,
        Name:    in.Name,
        Comment: in.Comment,
        OwnerID: &ownerID,
    }
    if err := s.ClientRepo.Create(client); err != nil {
        return nil, err
    }
    return client, nil
}

func (s *ClientService) Update(actor *model.User, id int, in ClientInput) (*model.Client, error) {
    client, err := s.ClientRepo.GetByID(id)
    if err != nil {
        return nil, err
    }
    if !auth.Can(actor, auth.ActionEdit, client.OwnerID) {
        return nil, appErrors.ErrPermissionDenied
    }
    if err := in.validate(); err != nil {
        return nil, err
    }

    client.Email = in.Email
    client.Name = in.Name
    client.Comment = in.Comment
    if err := s.ClientRepo.Update(client); err != nil {
        return nil, err
    }
    return client, nil
}

func (s *ClientService) Delete(actor *model.User, id int) error {
    client, err := s.ClientRepo.GetByID(id)
    if err != nil {
        return err
    }
    if !auth.Can(actor, auth.ActionDelete, client.OwnerID) {
        return appErrors.ErrPermissionDenied
    }
    return s.ClientRepo.Delete(id)
}
