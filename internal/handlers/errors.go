// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/agritrace/agritrace-backend/internal/i18n"
	"github.com/agritrace/agritrace-backend/internal/services"
	"github.com/agritrace/agritrace-backend/internal/utils"
)

// respondServiceError maps service sentinel errors onto HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrDuplicatePhone):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthPhoneExists))
	case errors.Is(err, services.ErrParticipantNotFound):
		utils.NotFoundResponse(c, "participant")
	case errors.Is(err, services.ErrProduceNotFound):
		utils.NotFoundResponse(c, "produce")
	case errors.Is(err, services.ErrNotCurrentOwner):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyTransferNotOwner))
	case errors.Is(err, services.ErrInvalidRecipientRole):
		utils.UnprocessableResponse(c, i18n.T(lang, i18n.KeyTransferInvalidRole))
	case errors.Is(err, services.ErrNotFarmer):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthRoleDenied))
	default:
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
