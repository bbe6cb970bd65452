// internal/handlers/favorite.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/favorites-api/internal/i18n"
	"github.com/javajoker/favorites-api/internal/services"
	"github.com/javajoker/favorites-api/internal/utils"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

// POST /favorite
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	clientID, exists := utils.GetClientIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	favorite, err := h.favoriteService.AddFavorite(c.Request.Context(), clientID, &req)
	if errors.Is(err, services.ErrProductNotFound) {
		utils.NotFoundResponseWithCode(c, "PRODUCT_NOT_FOUND", i18n.KeyProductNotFound, req.ProductID)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"id":         favorite.ID,
		"client_id":  favorite.ClientID,
		"product_id": favorite.ProductID,
	})
}

// DELETE /favorite/:product_id
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	clientID, exists := utils.GetClientIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFavoriteInvalidProduct), nil)
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), clientID, productID); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
