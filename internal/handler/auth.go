package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"fitcoach-api/pkg/errs"
	"github.com/gin-gonic/gin"
)

type telegramLoginRequest struct {
	Platform   string `json:"platform"`
	PlatformID any    `json:"platform_id"`
	InitData   string `json:"initData"`
}

func (h *Handlers) telegramLogin(c *gin.Context) {
	var req telegramLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errs.ErrBadRequest.WithMessage("invalid json body"))
		return
	}

	res, err := h.services.LoginTelegram(c.Request.Context(), req.Platform, platformIDString(req.PlatformID), req.InitData)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// platformIDString accepts the id either as a JSON string or a number;
// Telegram user ids arrive both ways depending on the client.
func platformIDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handlers) setRole(c *gin.Context) {
	access := mustAccess(c)

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errs.ErrBadRequest.WithMessage("invalid json body"))
		return
	}

	updated, err := h.services.SetRole(c.Request.Context(), access.UserID, req.Role)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": updated.Role, "pdn_required": updated.PDNRequired})
}
