package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yeremiapane/cafe-api/config"
	"github.com/yeremiapane/cafe-api/utils"
	"golang.org/x/crypto/bcrypt"
)

const forbiddenMessage = "Sorry, that's not allowed. Make sure you have the correct api_key."

// APIKeyMiddleware checks the "api_key" field of the JSON body before the
// handler runs, so a wrong key is rejected whether or not the cafe exists.
// The body stays readable for the handler through ShouldBindBodyWith.
func APIKeyMiddleware(sec config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			APIKey string `json:"api_key"`
		}
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			utils.AbortWithError(c, http.StatusForbidden, utils.ErrForbidden, forbiddenMessage)
			return
		}

		if !validAPIKey(sec, body.APIKey) {
			utils.InfoLogger.Warnf("Rejected api_key for %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			utils.AbortWithError(c, http.StatusForbidden, utils.ErrForbidden, forbiddenMessage)
			return
		}

		c.Next()
	}
}

func validAPIKey(sec config.SecurityConfig, key string) bool {
	if key == "" {
		return false
	}
	if sec.APIKeyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(sec.APIKeyHash), []byte(key)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(sec.APIKey), []byte(key)) == 1
}
