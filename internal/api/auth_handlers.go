package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Itoshi-web/idksan/internal/constants"
	"github.com/Itoshi-web/idksan/internal/logging"
)

type guestLoginRequest struct {
	Username string `json:"username"`
}

// GuestLogin mints a guest identity: a fresh player UUID bound to the chosen
// display name, returned as a signed session token. No account is required.
func (h *Handler) GuestLogin(c *gin.Context) {
	var req guestLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || len(username) > 24 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	playerUUID := uuid.NewString()
	if h.repo != nil {
		if err := h.repo.UpsertUser(playerUUID, username); err != nil {
			logging.Error("failed to upsert guest profile", err, logging.Fields{constants.LogFieldPlayerID: playerUUID})
		}
	}

	token, err := createSessionToken(playerUUID, username, h.sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"player_uuid": playerUUID,
		"username":    username,
	})
}
