package domain

import (
	"fmt"
	"strings"

	"github.com/qmuntal/stateless"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

var transitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:         {StatusSent, StatusCancelled},
	StatusSent:          {StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusCancelled},
	StatusPartiallyPaid: {StatusPaid, StatusOverdue, StatusCancelled},
	StatusOverdue:       {StatusPartiallyPaid, StatusPaid, StatusCancelled},
	StatusPaid:          nil,
	StatusCancelled:     nil,
}

// ParseStatus accepts any known status, case-insensitively.
func ParseStatus(raw string) (InvoiceStatus, error) {
	status := InvoiceStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := transitions[status]; !ok {
		return "", apperr.Invalid("status", fmt.Sprintf("unknown status %q", raw))
	}
	return status, nil
}

// IsTerminal reports whether an invoice in this status is frozen.
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// newMachine builds the lifecycle machine positioned at from. Triggers are
// the target statuses themselves.
func newMachine(from InvoiceStatus) *stateless.StateMachine {
	machine := stateless.NewStateMachine(from)
	for state, targets := range transitions {
		cfg := machine.Configure(state)
		for _, target := range targets {
			cfg.Permit(target, target)
		}
	}
	return machine
}

// Transition validates moving from one status to another. Staying in the
// same status is always allowed; anything else the lifecycle does not
// permit is a ConflictError.
func Transition(from, to InvoiceStatus) error {
	if from == to {
		return nil
	}
	if err := newMachine(from).Fire(to); err != nil {
		return apperr.Conflict("invoice", fmt.Sprintf("cannot move from %s to %s", from, to))
	}
	return nil
}

// CanTransition is Transition without the error.
func CanTransition(from, to InvoiceStatus) bool {
	return Transition(from, to) == nil
}
