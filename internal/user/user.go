package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
	StatusDeleted  Status = "DELETED"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName falls back to the email when no name was provided.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}

	return u.Email
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrSelfChange    = errors.New("you cannot change your own status")
	ErrInvalidStatus = errors.New("status must be DISABLED or DELETED")
	ErrInactive      = errors.New("user account is not active")
	ErrEmailTaken    = errors.New("a user with this email already exists")
	ErrUnchanged     = errors.New("user status is unchanged")
)

// UnchangedError is returned when a status change would not change anything.
type UnchangedError struct {
	Status Status
}

func (e *UnchangedError) Error() string {
	return fmt.Sprintf("user is already %s", strings.ToLower(string(e.Status)))
}

func (e *UnchangedError) Is(target error) bool {
	return target == ErrUnchanged
}
