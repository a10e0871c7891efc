package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/felixphool/healthtwin/internal/domain"
)

// Recovery converts handler panics into a JSON 500 carrying the request
// ID, so clients never see a bare connection reset.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
			"panic":      recovered,
		}).Error("Handler panicked")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "internal server error",
			"code":       domain.ErrCodeInternal,
			"request_id": c.GetString("request_id"),
		})
	})
}
