package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use case.
var ErrPersistence = fmt.Errorf("chat use case persistence error")

// ErrRecipientNotFound and ErrListingNotFound reject a send before any side
// effect happens.
var (
	ErrRecipientNotFound = fmt.Errorf("chat use case: recipient not found")
	ErrListingNotFound   = fmt.Errorf("chat use case: listing not found")
	ErrNotParticipant    = fmt.Errorf("chat use case: user is not a participant in this conversation")
)
