package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"fitcoach-api/pkg/models"
	"fitcoach-api/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const accessKey = "access"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

// authRequired resolves the session token and stashes the caller's access
// record in the context. Missing, unknown and expired tokens all produce
// the same INVALID_SESSION response.
func (h *Handlers) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		access, err := h.services.ValidateSession(c.Request.Context(), extractToken(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(accessKey, access)
		c.Next()
	}
}

func mustAccess(c *gin.Context) models.Access {
	return c.MustGet(accessKey).(models.Access)
}

// extractToken checks the Authorization header, then the body's
// session_token, then the query parameter; first non-empty wins. The body
// is restored so handlers can still bind it.
func extractToken(c *gin.Context) string {
	if ah := c.GetHeader("Authorization"); ah != "" {
		t := ah
		if len(ah) >= 7 && strings.EqualFold(ah[:7], "bearer ") {
			t = ah[7:]
		}
		if t = util.CleanToken(t); t != "" {
			return t
		}
	}

	if c.Request.Body != nil && c.Request.Method != http.MethodGet {
		raw, err := c.GetRawData()
		if err == nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			var body struct {
				SessionToken string `json:"session_token"`
			}
			if json.Unmarshal(raw, &body) == nil {
				if t := util.CleanToken(body.SessionToken); t != "" {
					return t
				}
			}
		}
	}

	return util.CleanToken(c.Query("session_token"))
}
