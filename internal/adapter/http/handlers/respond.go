package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripmatch/internal/adapter/http/middleware"
	"tripmatch/internal/adapter/http/validation"
	"tripmatch/internal/core/domain"
	"tripmatch/pkg/apierrors"
)

// respondError maps the domain error taxonomy onto HTTP statuses so callers
// can distinguish caller mistakes from infrastructure failures.
func respondError(c *gin.Context, err error) {
	lang := middleware.GetLang(c)

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, apierrors.CreateErrorWithDetails(
			http.StatusBadRequest, apierrors.MsgValidationFailed, lang, validationErr.Violations))
		return
	}

	switch {
	case errors.Is(err, validation.ErrInvalidTaskPayload):
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
	case errors.Is(err, domain.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidRating, lang))
	case errors.Is(err, domain.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, apierrors.CreateError(http.StatusForbidden, apierrors.MsgNotAuthorized, lang))
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang))
	case errors.Is(err, domain.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgApplicationNotFound, lang))
	case errors.Is(err, domain.ErrAssetNotFound):
		c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgAssetNotFound, lang))
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, apierrors.CreateError(http.StatusConflict, apierrors.MsgInvalidTransition, lang))
	case errors.Is(err, domain.ErrDuplicateApplication):
		c.JSON(http.StatusConflict, apierrors.CreateError(http.StatusConflict, apierrors.MsgDuplicateApplication, lang))
	case errors.Is(err, domain.ErrDuplicateRating):
		c.JSON(http.StatusConflict, apierrors.CreateError(http.StatusConflict, apierrors.MsgDuplicateRating, lang))
	case errors.Is(err, domain.ErrTaskNotAcceptingApplications):
		c.JSON(http.StatusConflict, apierrors.CreateError(http.StatusConflict, apierrors.MsgNotAcceptingApplicants, lang))
	case errors.Is(err, domain.ErrTaskNotCompleted):
		c.JSON(http.StatusConflict, apierrors.CreateError(http.StatusConflict, apierrors.MsgTaskNotCompleted, lang))
	case errors.Is(err, domain.ErrConcurrentModification):
		c.JSON(http.StatusConflict, apierrors.CreateError(http.StatusConflict, apierrors.MsgConcurrentModification, lang))
	default:
		zap.L().Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgInternalError, lang))
	}
}

// requireActor pulls the authenticated actor from the request or writes a
// 401 and reports false.
func requireActor(c *gin.Context) (uint64, domain.Role, bool) {
	actorID, role, ok := middleware.GetActor(c)
	if !ok {
		lang := middleware.GetLang(c)
		c.JSON(http.StatusUnauthorized, apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgMissingActor, lang))
		return 0, "", false
	}
	return actorID, role, true
}

// pathID parses the named uint64 path parameter or writes a 400 and reports
// false.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		lang := middleware.GetLang(c)
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		lang := middleware.GetLang(c)
		c.JSON(http.StatusBadRequest, apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang))
		return false
	}
	return true
}
