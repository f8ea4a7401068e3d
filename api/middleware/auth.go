package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
	"github.com/dynamisinc/cobra-poc-sub007/internal/service"
)

// APIKeySettingKey is the settings key holding the accepted API key
const APIKeySettingKey = "api_key"

// APIKeyAuth validates the bearer token on mutating routes against the
// stored api_key setting. When no key has been configured the check is
// skipped, which keeps fresh installs usable before an admin sets one.
func APIKeyAuth(settings service.SettingService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		setting, err := settings.GetByKey(c.Request.Context(), APIKeySettingKey)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.Next()
				return
			}
			log.WithError(err).Error("Failed to load API key setting")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to validate credentials",
			})
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid Authorization header format. Expected: 'Bearer {token}'",
			})
			c.Abort()
			return
		}

		if parts[1] != setting.Value {
			log.Warn("Invalid API key")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
