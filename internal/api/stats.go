package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Itoshi-web/idksan/internal/constants"
	"github.com/Itoshi-web/idksan/internal/logging"
)

const defaultLeaderboardSize = 10
const maxLeaderboardSize = 100

// Leaderboard returns the top players ordered by wins.
func (h *Handler) Leaderboard(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	limit := defaultLeaderboardSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxLeaderboardSize {
			limit = n
		}
	}
	players, err := h.repo.GetTopPlayers(limit)
	if err != nil {
		logging.Error("failed to fetch leaderboard", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}

// PlayerStats returns the session user's durable profile.
func (h *Handler) PlayerStats(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	playerUUID, _ := sessionIdentity(c)
	profile, err := h.repo.GetStatsByUUID(playerUUID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, profile)
}
