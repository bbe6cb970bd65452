// internal/handlers/client.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/favorites-api/internal/i18n"
	"github.com/javajoker/favorites-api/internal/models"
	"github.com/javajoker/favorites-api/internal/services"
	"github.com/javajoker/favorites-api/internal/utils"
)

type ClientHandler struct {
	clientService *services.ClientService
	tokenTTLHours int
}

// CreateClientResponse is the created client with the bearer token that
// identifies it on favorite operations alongside its fields.
type CreateClientResponse struct {
	*models.Client
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewClientHandler(clientService *services.ClientService, tokenTTLHours int) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		tokenTTLHours: tokenTTLHours,
	}
}

// POST /client
func (h *ClientHandler) CreateClient(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateJWT(client.ID, h.tokenTTLHours)
	if err != nil {
		logrus.WithError(err).WithField("client_id", client.ID).Error("Failed to issue access token")
		utils.InternalErrorResponse(c, "", "")
		return
	}

	utils.SuccessResponse(c, CreateClientResponse{
		Client:      client,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.tokenTTLHours * 3600,
	})
}

// GET /client/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	client, err := h.clientService.ReadClient(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, client)
}

// PATCH /client/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if _, err := h.clientService.UpdateClient(c.Request.Context(), clientID, &req); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// DELETE /client/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// GET /client?offset=&limit=
func (h *ClientHandler) ListClients(c *gin.Context) {
	params, err := utils.GetOffsetLimit(c, services.MaxClientsPerPage)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SetPaginationHeaders(c, params, len(clients))
	utils.SuccessResponseWithMeta(c, clients, params)
}

func parseClientID(c *gin.Context) (uuid.UUID, bool) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyClientInvalidID), nil)
		return uuid.Nil, false
	}
	return clientID, true
}
