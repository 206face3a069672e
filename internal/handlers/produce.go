// internal/handlers/produce.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agritrace/agritrace-backend/internal/i18n"
	"github.com/agritrace/agritrace-backend/internal/services"
	"github.com/agritrace/agritrace-backend/internal/utils"
)

type ProduceHandler struct {
	produceService *services.ProduceService
}

func NewProduceHandler(produceService *services.ProduceService) *ProduceHandler {
	return &ProduceHandler{
		produceService: produceService,
	}
}

// POST /produce
func (h *ProduceHandler) RegisterProduce(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	producerID, ok := callerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.RegisterProduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	record, err := h.produceService.RegisterProduce(producerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProduceRegistered),
		"produce": record,
	})
}

// GET /produce
func (h *ProduceHandler) ListProduce(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.produceService.ListProduce(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /produce/mine
func (h *ProduceHandler) GetMyProduce(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	records, err := h.produceService.ListOwnedBy(ownerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"produce": records,
	})
}

// GET /produce/:id
func (h *ProduceHandler) GetProduce(c *gin.Context) {
	id, ok := produceID(c)
	if !ok {
		return
	}

	record, err := h.produceService.GetProduce(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"produce": record,
	})
}

// GET /produce/:id/history
func (h *ProduceHandler) GetProduceHistory(c *gin.Context) {
	id, ok := produceID(c)
	if !ok {
		return
	}

	history, err := h.produceService.GetHistory(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"history": history,
	})
}

// POST /produce/:id/transfer
//
// The transferring party is always the authenticated caller; ownership is
// checked against the session identity, never against a body field.
func (h *ProduceHandler) TransferProduce(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	fromID, ok := callerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := produceID(c)
	if !ok {
		return
	}

	var req services.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	record, err := h.produceService.TransferOwnership(id, fromID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProduceTransferred),
		"produce": record,
	})
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	idStr, exists := utils.GetParticipantIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func produceID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid produce ID", nil)
		return 0, false
	}
	return id, true
}
