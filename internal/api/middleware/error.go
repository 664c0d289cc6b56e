package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loanfillettaz/loadflow-visualization/internal/api/models"
)

// ErrorHandler recovers panics into the standard error envelope so clients
// never see a bare 500 body.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := "An unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		}
		c.JSON(http.StatusInternalServerError, models.NewError("INTERNAL_ERROR", msg))
		c.Abort()
	})
}
