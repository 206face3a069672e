// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired        = "auth.required"
	KeyAuthInvalidToken    = "auth.invalid_token"
	KeyAuthTokenExpired    = "auth.token_expired"
	KeyAuthRoleDenied      = "auth.role_denied"
	KeyAuthLoginSuccess    = "auth.login_success"
	KeyAuthLogoutSuccess   = "auth.logout_success"
	KeyAuthRegisterSuccess = "auth.register_success"
	KeyAuthPhoneExists     = "auth.phone_exists"

	// Participants
	KeyParticipantNotFound = "participant.not_found"

	// Produce ledger
	KeyProduceRegistered   = "produce.registered"
	KeyProduceNotFound     = "produce.not_found"
	KeyProduceTransferred  = "produce.transferred"
	KeyTransferNotOwner    = "transfer.not_owner"
	KeyTransferInvalidRole = "transfer.invalid_role"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
