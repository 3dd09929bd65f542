package handler

import (
	"net/http"

	"fitcoach-api/pkg/errs"
	"fitcoach-api/pkg/util"
	"github.com/gin-gonic/gin"
)

type consentRequest struct {
	Version  string `json:"version"`
	Accepted any    `json:"accepted"`
}

func (h *Handlers) postConsent(c *gin.Context) {
	access := mustAccess(c)

	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errs.ErrBadRequest.WithMessage("invalid json body"))
		return
	}

	receipt, err := h.services.SubmitConsent(c.Request.Context(), access.UserID, req.Version, util.ToBool(req.Accepted))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
