// internal/mailer/smtp.go
package mailer

import (
    "context"
    "crypto/tls"
    "errors"
    "fmt"
    "net"
    "net/mail"
    "net/smtp"
    "strconv"
    "strings"
    "time"
)

// SMTPMailer sends mail through a single SMTP server. Credentials and the
// sender address are injected at construction, not read from the process
// environment at send time.
type SMTPMailer struct {
    Host     string
    Port     int
    Username string
    Password string
    From     string

    dialer net.Dialer
}

func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
    if host == "" {
        return nil, errors.New("smtp mailer: host is required")
    }
    if port <= 0 || port > 65535 {
        return nil, fmt.Errorf("smtp mailer: invalid port %d", port)
    }
    if _, err := mail.ParseAddress(from); err != nil {
        return nil, fmt.Errorf("smtp mailer: invalid from address: %w", err)
    }
    return &SMTPMailer{
        Host:     host,
        Port:     port,
        Username: username,
        Password: password,
        From:     from,
        dialer:   net.Dialer{Timeout: 30 * time.Second},
    }, nil
}

func (m *SMTPMailer) Send(ctx context.Context, subject, body, recipient string) error {
    to, err := mail.ParseAddress(recipient)
    if err != nil {
        return fmt.Errorf("smtp mailer: invalid recipient: %w", err)
    }

    addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
    conn, err := m.dialer.DialContext(ctx, "tcp", addr)
    if err != nil {
        return fmt.Errorf("smtp mailer: dial: %w", err)
    }
    defer conn.Close()

    if deadline, ok := ctx.Deadline(); ok {
        _ = conn.SetDeadline(deadline)
    }

    client, err := smtp.NewClient(conn, m.Host)
    if err != nil {
        return fmt.Errorf("smtp mailer: new client: %w", err)
    }
    defer client.Close()

    if ok, _ := client.Extension("STARTTLS"); ok {
        if err := client.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
            return fmt.Errorf("smtp mailer: starttls: %w", err)
        }
    }

    if m.Username != "" {
        if ok, _ := client.Extension("AUTH"); ok {
            auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
            if err := client.Auth(auth); err != nil {
                return fmt.Errorf("smtp mailer: auth: %w", err)
            }
        }
    }

    if err := client.Mail(m.From); err != nil {
        return fmt.Errorf("smtp mailer: mail from: %w", err)
    }
    if err := client.Rcpt(to.Address); err != nil {
        return fmt.Errorf("smtp mailer: rcpt to %s: %w", to.Address, err)
    }

    writer, err := client.Data()
    if err != nil {
        return fmt.Errorf("smtp mailer: data: %w", err)
    }
    if _, err := writer.Write(buildMessage(m.From, to.Address, subject, body)); err != nil {
        _ = writer.Close()
        return fmt.Errorf("smtp mailer: data write: %w", err)
    }
    if err := writer.Close(); err != nil {
        return fmt.Errorf("smtp mailer: data close: %w", err)
    }

    if err := client.Quit(); err != nil {
        return fmt.Errorf("smtp mailer: quit: %w", err)
    }
    return ctx.Err()
}

func buildMessage(from, to, subject, body string) []byte {
    var b strings.Builder
    b.WriteString("From: " + from + "\r\n")
    b.WriteString("To: " + to + "\r\n")
    b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
    b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
    b.WriteString("MIME-Version: 1.0\r\n")
    b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
    b.WriteString("\r\n")
    b.WriteString(body)
    return []byte(b.String())
}

func sanitizeHeader(value string) string {
    clean := strings.ReplaceAll(value, "\r", " ")
    clean = strings.ReplaceAll(clean, "\n", " ")
    return strings.TrimSpace(clean)
}

var _ Mailer = (*SMTPMailer)(nil)
