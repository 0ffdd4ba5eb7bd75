package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cafe-api/utils"
)

// ClosureLoggerMiddleware records every report-closed attempt and its outcome.
func ClosureLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cafeID := c.Param("cafe_id")
		utils.InfoLogger.Printf("Closure reported for cafe ID: %s from %s", cafeID, c.ClientIP())

		c.Next()

		switch c.Writer.Status() {
		case http.StatusOK:
			utils.InfoLogger.Printf("Cafe ID %s removed after closure report", cafeID)
		case http.StatusForbidden:
			utils.InfoLogger.Warnf("Closure report for cafe ID %s rejected: bad api_key", cafeID)
		default:
			utils.InfoLogger.Printf("Closure report for cafe ID %s ended with status %d", cafeID, c.Writer.Status())
		}
	}
}
