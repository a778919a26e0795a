package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Itoshi-web/idksan/internal/constants"
)

// bearerToken extracts the session token from the Authorization header, or
// from the token query parameter as a fallback for websocket upgrades.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader(constants.HeaderAuthorization)
	if strings.HasPrefix(header, constants.BearerPrefix) {
		return strings.TrimPrefix(header, constants.BearerPrefix)
	}
	return c.Query("token")
}

// AuthRequired validates the session token and injects identity into context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := parseAndValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set("playerUUID", claims.PlayerUUID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// sessionIdentity reads the identity that AuthRequired stored in the context.
func sessionIdentity(c *gin.Context) (string, string) {
	uuid, _ := c.Get("playerUUID")
	name, _ := c.Get("username")
	uuidStr, _ := uuid.(string)
	nameStr, _ := name.(string)
	return uuidStr, nameStr
}
