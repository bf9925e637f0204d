// internal/service/stats_service.go
package service

import (
    "github.com/unclebandit/mailflow-backend/internal/model"
    "github.com/unclebandit/mailflow-backend/internal/repository"
)

type StatsService struct {
    MailingRepo repository.MailingRepositoryInterface
    MessageRepo repository.MessageRepositoryInterface
    ClientRepo  repository.ClientRepositoryInterface
}

// HomeStats returns the dashboard counts: everything for managers, the
// actor's own rows otherwise.
func (s *StatsService) HomeStats(actor *model.User) (map[string]int, error) {
    var ownerID *int
    if !actor.IsManager {
        ownerID = &actor.ID
    }

    messages, err := s.MessageRepo.Count(ownerID)
    if err != nil {
        return nil, err
    }
    mailings, err := s.MailingRepo.Count(ownerID, "")
    if err != nil {
        return nil, err
    }
    active, err := s.MailingRepo.Count(ownerID, model.StatusStarted)
    if err != nil {
        return nil, err
    }
    clients, err := s.ClientRepo.Count(ownerID)
    if err != nil {
        return nil, err
    }

    return map[string]int{
        "messages_count":        messages,
        "mailings_count":        mailings,
        "active_mailings_count": active,
        "clients_count":         clients,
    }, nil
}
