// internal/mailer/mock.go
package mailer

import (
    "context"
    "sync"
)

// SentMail records one delivery made through the MockMailer.
type SentMail struct {
    Subject   string
    Body      string
    Recipient string
}

// MockMailer records sends in memory. FailFor maps recipient addresses to
// the error that Send should return for them; everyone else succeeds.
type MockMailer struct {
    mu      sync.Mutex
    Sent    []SentMail
    FailFor map[string]error
}

func NewMockMailer() *MockMailer {
    return &MockMailer{FailFor: map[string]error{}}
}

func (m *MockMailer) Send(ctx context.Context, subject, body, recipient string) error {
    m.mu.Lock()
    defer m.mu.Unlock()

    if err, ok := m.FailFor[recipient]; ok {
        return err
    }
    m.Sent = append(m.Sent, SentMail{Subject: subject, Body: body, Recipient: recipient})
    return nil
}

var _ Mailer = (*MockMailer)(nil)
