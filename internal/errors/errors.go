// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrPermissionDenied is returned before any mutation when the actor lacks
// ownership or the required capability. Distinct from not-found.
var ErrPermissionDenied = errors.New("permission denied")

// ErrMessageInUse is returned when deleting a message still referenced by
// at least one mailing. The store's FK RESTRICT backs this up.
var ErrMessageInUse = errors.New("message is referenced by a mailing and cannot be deleted")

// ErrClientEmailExists is returned when creating or updating a client with
// an email another client already uses. The clients.email UNIQUE constraint
// backs this up.
var ErrClientEmailExists = errors.New("a client with this email already exists")

// ErrInvalidCredentials is returned on login failure.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailExists is returned when registering with an email already taken.
var ErrEmailExists = errors.New("email already registered")

// ErrAccountInactive is returned when a blocked or unverified account
// attempts to log in.
var ErrAccountInactive = errors.New("account is blocked or not verified")

// ErrInvalidToken is returned for unknown verification or reset tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// NotFoundError is the sentinel for unknown identifiers of any entity.
type NotFoundError struct {
    Entity string
    ID     int
}

func (e *NotFoundError) Error() string {
    return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

// Helper constructors
func NewClientNotFound(id int) error  { return &NotFoundError{Entity: "client", ID: id} }
func NewMessageNotFound(id int) error { return &NotFoundError{Entity: "message", ID: id} }
func NewMailingNotFound(id int) error { return &NotFoundError{Entity: "mailing", ID: id} }
func NewUserNotFound(id int) error    { return &NotFoundError{Entity: "user", ID: id} }

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
    var nf *NotFoundError
    return errors.As(err, &nf)
}

// ValidationError reports input rejected before any mutation.
type ValidationError struct {
    Msg string
}

func (e *ValidationError) Error() string {
    return e.Msg
}

func NewValidation(format string, args ...interface{}) error {
    return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
    var v *ValidationError
    return errors.As(err, &v)
}
