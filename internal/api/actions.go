package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Itoshi-web/idksan/internal/constants"
	"github.com/Itoshi-web/idksan/internal/engine"
	"github.com/Itoshi-web/idksan/internal/logging"
)

// SubmitAction applies one game action on behalf of the session user. The
// request body is the engine's own action shape.
func (h *Handler) SubmitAction(c *gin.Context) {
	code, ok := roomCodeParam(c)
	if !ok {
		return
	}
	var action engine.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerUUID, _ := sessionIdentity(c)

	view, err := h.svc.SubmitAction(code, playerUUID, action)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	logging.Info("action applied", logging.Fields{
		constants.LogFieldRoomCode: code,
		constants.LogFieldPlayerID: playerUUID,
		constants.LogFieldAction:   string(action.Type),
		constants.LogFieldTurn:     view.Game.TurnCount,
	})
	c.JSON(http.StatusOK, view)
}
