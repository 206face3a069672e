// internal/services/errors.go
package services

import "errors"

// Sentinel errors returned by the identity and produce services. Handlers
// translate these into HTTP status codes with errors.Is.
var (
	ErrDuplicatePhone       = errors.New("phone number already registered")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrProduceNotFound      = errors.New("produce record not found")
	ErrNotCurrentOwner      = errors.New("only the current owner may transfer this produce")
	ErrInvalidRecipientRole = errors.New("recipient role cannot receive this produce")
	ErrNotFarmer            = errors.New("only farmers can register produce")
)
