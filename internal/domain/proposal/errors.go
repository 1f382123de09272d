package proposal

import "errors"

var (
	ErrProposalNotFound  = errors.New("Proposal not found")
	ErrNumberConflict    = errors.New("Proposal number already exists")
	ErrInvalidTransition = errors.New("Invalid proposal status transition")
	ErrNoItems           = errors.New("Proposal must have at least one item")
)
