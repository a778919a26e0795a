package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Itoshi-web/idksan/internal/constants"
)

// RoomWS upgrades the request to a WebSocket subscribed to room broadcasts.
// Authentication uses the token query parameter: browsers cannot set headers
// on upgrade requests.
func (h *Handler) RoomWS(c *gin.Context) {
	code, ok := roomCodeParam(c)
	if !ok {
		return
	}
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	claims, err := parseAndValidateSession(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
		return
	}
	if _, found := h.svc.Store().Get(code); !found {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
		return
	}
	h.hub.ServeWS(c.Writer, c.Request, code, claims.PlayerUUID)
}
