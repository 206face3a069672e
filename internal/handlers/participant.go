// internal/handlers/participant.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agritrace/agritrace-backend/internal/models"
	"github.com/agritrace/agritrace-backend/internal/services"
	"github.com/agritrace/agritrace-backend/internal/utils"
)

type ParticipantHandler struct {
	identityService *services.IdentityService
}

func NewParticipantHandler(identityService *services.IdentityService) *ParticipantHandler {
	return &ParticipantHandler{
		identityService: identityService,
	}
}

// GET /participants?role=distributor
//
// The transfer form loads the registered participants of the next stage with
// this endpoint to offer them as recipients.
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if !role.Valid() {
		utils.BadRequestResponse(c, "role must be one of farmer, distributor, or retailer", nil)
		return
	}

	participants, err := h.identityService.ListByRole(role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"participants": participants,
	})
}

// GET /participants/:id
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid participant ID", nil)
		return
	}

	participant, err := h.identityService.GetParticipant(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"participant": participant,
	})
}
