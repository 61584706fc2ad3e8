package item

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("item not found")
	ErrOwnItem             = errors.New("you cannot vote on your own item")
	ErrNotPending          = errors.New("item is no longer pending")
	ErrNotApproved         = errors.New("only approved items can be checked in")
	ErrDuplicateSubmission = errors.New("duplicate submission, please wait before trying again")
	ErrForbidden           = errors.New("only the creator or a trip admin can delete this item")
	ErrInvalidVoteValue    = errors.New("value must be APPROVE or REJECT")
	ErrInvalidCategory     = errors.New("category must be PLACE or FOOD")
)

// NotPendingError reports the status an item was already resolved to.
type NotPendingError struct {
	Status Status
}

func (e *NotPendingError) Error() string {
	return fmt.Sprintf("item is already %s", strings.ToLower(string(e.Status)))
}

func (e *NotPendingError) Is(target error) bool {
	return target == ErrNotPending
}
