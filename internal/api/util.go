package api

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/Itoshi-web/idksan/internal/constants"
	"github.com/Itoshi-web/idksan/internal/service"
)

var roomCodeRegex = regexp.MustCompile("^[A-Z0-9]{6}$")

// roomCodeParam validates and normalizes the roomCode path parameter,
// writing the error response itself when the code is malformed.
func roomCodeParam(c *gin.Context) (string, bool) {
	code := service.NormalizeCode(c.Param("roomCode"))
	if !roomCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return "", false
	}
	return code, true
}

// normalizeAndValidate checks a body-supplied room code, writing the error
// response itself when the code is malformed.
func normalizeAndValidate(c *gin.Context, raw string) string {
	code := service.NormalizeCode(raw)
	if !roomCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoomCode})
		return ""
	}
	return code
}

// writeServiceError maps session-layer sentinel errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
	case errors.Is(err, service.ErrRoomFull):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRoomFull})
	case errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrWrongPassword})
	case errors.Is(err, service.ErrRoomStarted):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRoomStarted})
	case errors.Is(err, service.ErrRoomNotStarted):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRoomNotStarted})
	case errors.Is(err, service.ErrGameFinished):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRoomStarted})
	case errors.Is(err, service.ErrNotYourTurn):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotYourTurn})
	case errors.Is(err, service.ErrNotRoomLeader):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotRoomLeader})
	case errors.Is(err, service.ErrNotInRoom), errors.Is(err, service.ErrNotABot):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNotInRoom})
	case errors.Is(err, service.ErrNotEnoughPlayers):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotEnoughPlayers})
	case errors.Is(err, service.ErrPlayersNotReady):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlayersNotReady})
	case errors.Is(err, service.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownAction})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
	}
}
