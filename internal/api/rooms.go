package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Itoshi-web/idksan/internal/constants"
	"github.com/Itoshi-web/idksan/internal/logging"
)

type createRoomRequest struct {
	Name     string `json:"name"`
	Private  bool   `json:"private"`
	Password string `json:"password"`
}

// CreateRoom opens a room with the session user as leader.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerUUID, username := sessionIdentity(c)

	view, err := h.svc.CreateRoom(playerUUID, username, strings.TrimSpace(req.Name), req.Private, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	logging.Info("room created", logging.Fields{
		constants.LogFieldRoomCode: view.Code,
		constants.LogFieldPlayerID: playerUUID,
	})
	c.JSON(http.StatusCreated, view)
}

type joinRoomRequest struct {
	RoomCode string `json:"room_code"`
	Password string `json:"password"`
}

// JoinRoom seats the session user in an existing room.
func (h *Handler) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	code := normalizeAndValidate(c, req.RoomCode)
	if code == "" {
		return
	}
	playerUUID, username := sessionIdentity(c)

	view, err := h.svc.JoinRoom(code, req.Password, playerUUID, username)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetRoom returns the current room snapshot.
func (h *Handler) GetRoom(c *gin.Context) {
	code, ok := roomCodeParam(c)
	if !ok {
		return
	}
	room, found := h.svc.Store().Get(code)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoomNotFound})
		return
	}
	c.JSON(http.StatusOK, room.View())
}

type readyRequest struct {
	Ready bool `json:"ready"`
}

// SetReady toggles the session user's readiness.
func (h *Handler) SetReady(c *gin.Context) {
	code, ok := roomCodeParam(c)
	if !ok {
		return
	}
	var req readyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerUUID, _ := sessionIdentity(c)

	view, err := h.svc.SetReady(code, playerUUID, req.Ready)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// LeaveRoom removes the session user from a room.
func (h *Handler) LeaveRoom(c *gin.Context) {
	code, ok := roomCodeParam(c)
	if !ok {
		return
	}
	playerUUID, _ := sessionIdentity(c)

	view, err := h.svc.LeaveRoom(code, playerUUID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if view == nil {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Room closed"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// StartRoom starts the match.
func (h *Handler) StartRoom(c *gin.Context) {
	code, ok := roomCodeParam(c)
	if !ok {
		return
	}
	playerUUID, _ := sessionIdentity(c)

	view, err := h.svc.Start(code, playerUUID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	logging.Info("game started", logging.Fields{
		constants.LogFieldRoomCode: code,
		constants.LogFieldPlayerID: playerUUID,
	})
	c.JSON(http.StatusOK, view)
}

// AddBot seats a bot in the room.
func (h *Handler) AddBot(c *gin.Context) {
	code, ok := roomCodeParam(c)
	if !ok {
		return
	}
	playerUUID, _ := sessionIdentity(c)

	view, err := h.svc.AddBot(code, playerUUID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type removeBotRequest struct {
	BotID string `json:"bot_id"`
}

// RemoveBot unseats a bot.
func (h *Handler) RemoveBot(c *gin.Context) {
	code, ok := roomCodeParam(c)
	if !ok {
		return
	}
	var req removeBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	playerUUID, _ := sessionIdentity(c)

	view, err := h.svc.RemoveBot(code, playerUUID, req.BotID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PublicRooms lists joinable public rooms.
func (h *Handler) PublicRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.svc.Store().ListPublic()})
}
