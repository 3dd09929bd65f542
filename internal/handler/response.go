package handler

import (
	"errors"
	"net/http"

	"fitcoach-api/pkg/errs"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// abortWithError translates errors into the wire taxonomy. Anything that
// isn't an APIError is logged and reported as a bare SERVER_ERROR.
func abortWithError(c *gin.Context, err error) {
	var apiErr *errs.APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, apiErr)
		return
	}
	log.Errorf("unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errs.ErrServer)
}
