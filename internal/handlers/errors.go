// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/favorites-api/internal/i18n"
	"github.com/javajoker/favorites-api/internal/services"
	"github.com/javajoker/favorites-api/internal/utils"
)

// respondError maps service errors onto the HTTP error envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)
	_ = c.Error(err)

	switch {
	case errors.Is(err, services.ErrValidation):
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", i18n.T(lang, i18n.KeyValidationInvalid, "input"),
			utils.GetValidationErrors(err))
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c, "")
	case errors.Is(err, services.ErrClientNotFound):
		utils.NotFoundResponse(c, i18n.KeyClientNotFound)
	case errors.Is(err, services.ErrFavoriteNotFound):
		utils.NotFoundResponse(c, i18n.KeyFavoriteNotFound)
	case errors.Is(err, services.ErrDuplicateFavorite):
		utils.ConflictResponse(c, "DUPLICATE_FAVORITE", i18n.T(lang, i18n.KeyFavoriteDuplicate))
	case errors.Is(err, services.ErrDuplicateEmail):
		utils.InternalErrorResponse(c, "DUPLICATE_EMAIL", i18n.T(lang, i18n.KeyClientDuplicateEmail))
	case errors.Is(err, services.ErrIntegrity):
		logrus.WithError(err).Error("Integrity error")
		utils.InternalErrorResponse(c, "INTEGRITY_ERROR", i18n.T(lang, i18n.KeyIntegrityError))
	case errors.Is(err, services.ErrGateway):
		logrus.WithError(err).Warn("Product catalog error")
		utils.BadGatewayResponse(c)
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled error")
		utils.InternalErrorResponse(c, "", "")
	}
}
