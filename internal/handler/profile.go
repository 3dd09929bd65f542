package handler

import (
	"net/http"

	"fitcoach-api/pkg/errs"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) getProfile(c *gin.Context) {
	access := mustAccess(c)

	view, err := h.services.GetProfile(c.Request.Context(), access.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type saveProfileRequest struct {
	Profile map[string]any `json:"profile"`
}

func (h *Handlers) saveProfile(c *gin.Context) {
	access := mustAccess(c)

	var req saveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errs.ErrBadRequest.WithMessage("invalid json body"))
		return
	}

	if err := h.services.SaveProfile(c.Request.Context(), access.UserID, req.Profile); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
